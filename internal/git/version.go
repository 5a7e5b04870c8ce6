package git

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
	"git.home.luguber.info/inful/releasepub/internal/logfields"
)

const shortHashLen = 7

// DetectVersion derives an app version from the git repository containing dir.
// A tag pointing at HEAD wins (leading "v" stripped); otherwise the short HEAD
// hash is returned. Parent directories are searched for the repository root.
func DetectVersion(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", ferrors.GitError("failed to open git repository").WithCause(err).
			WithContext("directory", dir).
			Build()
	}
	head, err := repo.Head()
	if err != nil {
		return "", ferrors.GitError("failed to resolve HEAD").WithCause(err).
			WithContext("directory", dir).
			Build()
	}

	tags, err := tagsAt(repo, head.Hash())
	if err != nil {
		return "", ferrors.GitError("failed to list tags").WithCause(err).
			WithContext("directory", dir).
			Build()
	}
	if len(tags) > 0 {
		version := trimVersionPrefix(latestTag(tags))
		slog.Debug("App version detected from tag", logfields.AppVersion(version), logfields.Directory(dir))
		return version, nil
	}

	version := head.Hash().String()[:shortHashLen]
	slog.Debug("App version detected from commit", logfields.AppVersion(version), logfields.Directory(dir))
	return version, nil
}

// tagsAt returns the short names of lightweight and annotated tags resolving to commit.
func tagsAt(repo *git.Repository, commit plumbing.Hash) ([]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, terr := repo.TagObject(target); terr == nil {
			c, cerr := tag.Commit()
			if cerr != nil {
				return nil // tag of a non-commit object
			}
			target = c.Hash
		}
		if target == commit {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	return names, err
}

// latestTag returns the highest semantic version among tags. Tags that are not
// versions rank below those that are and compare lexically among themselves.
func latestTag(tags []string) string {
	sorted := append([]string(nil), tags...)
	parsed := make(map[string]*semver.Version, len(sorted))
	for _, tag := range sorted {
		if v, err := semver.NewVersion(tag); err == nil {
			parsed[tag] = v
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := parsed[sorted[i]], parsed[sorted[j]]
		switch {
		case a != nil && b != nil:
			if a.Equal(b) {
				return sorted[i] < sorted[j]
			}
			return a.LessThan(b)
		case a != nil || b != nil:
			return a == nil
		default:
			return sorted[i] < sorted[j]
		}
	})
	return sorted[len(sorted)-1]
}

func trimVersionPrefix(tag string) string {
	if len(tag) > 1 && (tag[0] == 'v' || tag[0] == 'V') && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return strings.TrimSpace(tag)
}

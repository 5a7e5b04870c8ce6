package config

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldStage returns the caseless form used to compare stage names.
// Casers are stateful, so each call gets its own.
func foldStage(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NormalizeReleaseStages case-folds and de-duplicates release stage names,
// keeping first-seen order. Blank entries are dropped.
func NormalizeReleaseStages(stages []string) []string {
	if len(stages) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(stages))
	out := make([]string, 0, len(stages))
	for _, s := range stages {
		folded := foldStage(s)
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, folded)
	}
	return out
}

// ShouldNotify reports whether the client reports errors in its environment.
// An empty stage list notifies everywhere.
func (c ClientConfig) ShouldNotify() bool {
	if len(c.NotifyReleaseStages) == 0 {
		return true
	}
	env := foldStage(c.Environment)
	for _, s := range c.NotifyReleaseStages {
		if s == env {
			return true
		}
	}
	return false
}

package upload

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const mapSuffix = ".map"

// sourceMap pairs a map file with the bundle it describes.
type sourceMap struct {
	MapPath    string
	BundlePath string // empty when the bundle is missing
	Rel        string // bundle path relative to the target directory, slash separated
}

// discover walks dir for *.map files. node_modules is never descended into.
func discover(dir string) ([]sourceMap, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "walk", Path: dir, Err: fs.ErrInvalid}
	}

	var maps []sourceMap
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), mapSuffix) {
			return nil
		}
		bundle := strings.TrimSuffix(path, mapSuffix)
		rel, err := filepath.Rel(dir, bundle)
		if err != nil {
			return err
		}
		sm := sourceMap{MapPath: path, Rel: filepath.ToSlash(rel)}
		if st, err := os.Stat(bundle); err == nil && !st.IsDir() {
			sm.BundlePath = bundle
		}
		maps = append(maps, sm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(maps, func(i, j int) bool { return maps[i].MapPath < maps[j].MapPath })
	return maps, nil
}

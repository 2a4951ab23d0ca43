package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// discoverSources resolves the optional source-path CLI argument into the
// list of assertion-bearing files to check: the path itself if it's a
// regular file, or every ".java" file found by a recursive walk if it's a
// directory, matching the reference engine's source discovery rule.
func discoverSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(p) == ".java" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

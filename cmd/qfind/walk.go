package main

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/qfind/internal/pathindex"
)

// walkRoot is the directory-walking glue spec.md §1 treats as an
// external collaborator: it turns a root directory into the ordered
// (path, stat, depth) stream the builder consumes, applying the
// project's include/exclude globs along the way.
func walkRoot(root string, include, exclude []string, visit func(pathindex.PathRecord) error) error {
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry: skip, continue walking siblings
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if len(include) > 0 && !matchesAny(include, rel) {
			if d.IsDir() {
				return nil
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		return visit(pathindex.PathRecord{Path: path, Info: info, Depth: depth})
	})
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matched, _ := doublestar.Match(p, rel); matched {
			return true
		}
	}
	return false
}

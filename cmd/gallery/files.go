package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	gallery "github.com/jason-riddle/gallery-go"
)

// expandGlobs resolves each pattern against the file system. Results are
// de-duplicated and sorted; patterns without matches are logged.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("no files match", "pattern", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// openFiles opens every file matching patterns. The returned func closes
// them all.
func openFiles(patterns []string) ([]gallery.File, func(), error) {
	paths, err := expandGlobs(patterns)
	if err != nil {
		return nil, func() {}, err
	}

	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	files := make([]gallery.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", p, err)
		}
		opened = append(opened, f)
		files = append(files, gallery.File{Name: filepath.Base(p), Body: f})
	}
	return files, closeAll, nil
}

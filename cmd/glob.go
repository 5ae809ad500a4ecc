// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// scriptExt is the extension of scene scripts.
const scriptExt = ".scene"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .scene files found recursively under the given directory. Non-pattern
// arguments pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findScripts(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return out, nil
}

func findScripts(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == scriptExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes drops paths matching any exclude pattern.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether pattern matches the whole path, its base name
// or any of its directory components.
func matchesAny(path string, patterns []string) bool {
	components := splitPath(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pat, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of path, base name first.
func splitPath(path string) []string {
	var parts []string
	path = filepath.Clean(path)
	for {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append(parts, file)
		}
		dir = strings.TrimSuffix(dir, string(filepath.Separator))
		if dir == "" || dir == path {
			break
		}
		path = dir
	}
	return parts
}

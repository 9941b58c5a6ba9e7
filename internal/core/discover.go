package core

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover turns command-line arguments into the list of files to check.
// Directories contribute their *.yml and *.yaml files (not recursive, sorted
// by name); anything else is passed through unchanged so that a missing file
// surfaces as a read error for that file. Duplicates keep their first position.
func Discover(args []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			add(arg)
			continue
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() || !IsWorkflowFile(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(arg, e.Name()))
		}
		sort.Strings(files)
		for _, f := range files {
			add(f)
		}
	}
	return out
}

// IsWorkflowFile reports whether name has a YAML extension
func IsWorkflowFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

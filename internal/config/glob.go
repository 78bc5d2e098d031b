package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandGlobs expands input paths and glob patterns into a sorted unique
// list. Remote inputs (scheme://...) are passed through without a local
// existence check.
func ExpandGlobs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no input files provided")
	}

	files := make([]string, 0, len(patterns))
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		files = append(files, name)
	}

	for _, pattern := range patterns {
		switch {
		case IsRemote(pattern):
			add(pattern)

		case hasGlobMeta(pattern):
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no matches for pattern %q", pattern)
			}
			for _, match := range matches {
				add(match)
			}

		default:
			if _, err := os.Stat(pattern); err != nil {
				return nil, err
			}
			add(pattern)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsRemote reports whether name is a URI rather than a local path.
func IsRemote(name string) bool {
	return strings.Contains(name, "://")
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

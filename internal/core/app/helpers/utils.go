// Package helpers holds path and pattern utilities shared by the app layer.
package helpers

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"staticlint/internal/shared/util"
)

func CompileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// MatchAny reports whether name matches one of globs.
func MatchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// UniqueScanRoots returns the absolute, de-duplicated roots in sorted order.
// Roots nested inside another root are dropped.
func UniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if abs, err := filepath.Abs(normalized); err == nil {
			normalized = filepath.Clean(abs)
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)

	out := roots[:0]
	for _, r := range roots {
		if len(out) > 0 && util.IsWithin(r, out[len(out)-1]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

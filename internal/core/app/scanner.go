package app

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"staticlint/internal/core/app/helpers"
	"staticlint/internal/shared/util"
)

// ScanDirectories collects the supported source files below paths. Paths
// may also name single files. Excluded directories are not descended into,
// and the history database directory is always skipped.
func (a *App) ScanDirectories(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range helpers.UniqueScanRoots(paths) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				slog.Warn("skipping unreadable path", "path", path, "error", err)
				return nil
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && helpers.MatchAny(a.excludeDirs, base) {
					return filepath.SkipDir
				}
				if path != root && util.IsWithin(path, a.paths.DatabaseDir) {
					return filepath.SkipDir
				}
				return nil
			}

			if !a.Parser.IsSupportedPath(path) {
				return nil
			}
			if !a.IncludeTests && a.Parser.IsTestFile(path) {
				return nil
			}
			if helpers.MatchAny(a.excludeFiles, base) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

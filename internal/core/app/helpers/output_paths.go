package helpers

import (
	"path/filepath"

	"staticlint/internal/shared/util"
)

// ResolveOutputPath anchors a relative report path at root.
func ResolveOutputPath(path, root string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func WriteArtifact(path string, content []byte) error {
	return util.WriteFileWithDirs(path, content, 0o644)
}

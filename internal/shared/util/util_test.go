package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativeSlashPath(t *testing.T) {
	t.Parallel()

	root := filepath.Join("work", "project")
	cases := []struct {
		name     string
		root     string
		path     string
		expected string
	}{
		{name: "NoRoot", root: "", path: filepath.Join("src", "A.java"), expected: "src/A.java"},
		{name: "Inside", root: root, path: filepath.Join(root, "src", "A.java"), expected: "src/A.java"},
		{name: "Outside", root: root, path: filepath.Join("work", "other", "B.java"), expected: "work/other/B.java"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := RelativeSlashPath(tc.root, tc.path); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		dir      string
		expected bool
	}{
		{name: "Exact", path: "foo/bar", dir: "foo/bar", expected: true},
		{name: "Nested", path: "foo/bar/baz", dir: "foo/bar", expected: true},
		{name: "Neighbor", path: "foo/barista", dir: "foo/bar", expected: false},
		{name: "EmptyDir", path: "foo", dir: "", expected: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsWithin(tc.path, tc.dir); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	keys := SortedStringKeys(map[string]int{"micronaut": 2, "import": 1})
	if len(keys) != 2 || keys[0] != "import" || keys[1] != "micronaut" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "staticlint.sarif")
	if err := WriteFileWithDirs(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("expected {}, got %q", string(got))
	}
}

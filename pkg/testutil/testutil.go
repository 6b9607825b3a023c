// Package testutil provides shared test helpers: a counting filesystem
// for proving validation-before-I/O, and snapshot helpers for proving
// previews never mutate.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rewind/pkg/types"
)

// Snapshot walks the filesystem from root and returns a map of every
// path to its content (directories map to ""). Tests snapshot before
// and after a preview and assert equality.
func Snapshot(t *testing.T, fs types.FS, root string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				snap[path] = ""
				walk(path)
				continue
			}
			data, err := fs.ReadFile(path)
			if err != nil {
				t.Fatalf("snapshot read %s: %v", path, err)
			}
			snap[path] = string(data)
		}
	}
	walk(root)
	return snap
}

// WriteFile is a fatal-on-error file write for test setup.
func WriteFile(t *testing.T, fs types.FS, path, content string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile is a fatal-on-error file read for test assertions.
func ReadFile(t *testing.T, fs types.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists on fs.
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

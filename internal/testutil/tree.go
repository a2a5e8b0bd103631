package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFile creates rel (and any parent directories) under root with
// the given content.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directories for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// MkdirAll creates the directory rel under root.
func MkdirAll(t *testing.T, root, rel string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", rel, err)
	}
}

// ReadTree returns the contents of every regular file under root,
// keyed by slash-separated path relative to root.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()

	contents := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		contents[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to read tree %s: %v", root, err)
	}
	return contents
}

// TreePaths returns the sorted slash-separated relative paths of every
// regular file under root.
func TreePaths(t *testing.T, root string) []string {
	t.Helper()

	tree := ReadTree(t, root)
	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

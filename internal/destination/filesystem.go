package destination

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lazymaint/internal/maint"
)

// FileSystemDestination stores backup archives as plain files under a
// directory. The directory may be a local disk path or a mounted
// remote share (SMB/NFS); either way the same chunked copy path is
// used, which is the point of the Destination abstraction.
type FileSystemDestination struct {
	root string
}

// NewFileSystemDestination creates a destination rooted at the given
// directory, creating it if needed.
func NewFileSystemDestination(root string) (*FileSystemDestination, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}
	return &FileSystemDestination{root: root}, nil
}

// Put stores a named object using an atomic write (temp file + rename).
func (d *FileSystemDestination) Put(name string, r io.Reader, size int64) error {
	destPath := filepath.Join(d.root, name)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true
	return nil
}

// Get retrieves a named object and writes it to w.
func (d *FileSystemDestination) Get(name string, w io.Writer) error {
	f, err := os.Open(filepath.Join(d.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("object not found: %s", name)
		}
		return fmt.Errorf("opening object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	return nil
}

// Exists reports whether a named object is present.
func (d *FileSystemDestination) Exists(name string) (bool, error) {
	_, err := os.Stat(filepath.Join(d.root, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ValidateSetup verifies the destination directory is accessible.
func (d *FileSystemDestination) ValidateSetup() error {
	info, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("destination not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination is not a directory: %s", d.root)
	}
	return nil
}

// Compile-time check that FileSystemDestination implements maint.Destination
var _ maint.Destination = (*FileSystemDestination)(nil)

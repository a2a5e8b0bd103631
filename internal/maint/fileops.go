package maint

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// CopyChunkSize is the unit of chunked transfer to and from
// destinations. Cancellation is polled once per chunk.
const CopyChunkSize = 8 << 20 // 8 MiB

var errCancelled = errors.New("cancelled")

// TreeSize returns the recursive sum of file sizes under root.
// A missing root yields 0; per-file stat errors are skipped.
func (s *MaintService) TreeSize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}

// TrimToSize deletes the oldest files under root until its total size
// is at most maxBytes. Files whose base name appears in keep (the
// active log file) are never deleted. Per-file deletion failures are
// swallowed: a locked file is skipped, not retried. Afterward,
// now-empty subdirectories are removed bottom-up, best-effort.
func (s *MaintService) TrimToSize(root string, maxBytes int64, keep ...string) {
	current := s.TreeSize(root)
	if current <= maxBytes {
		return
	}

	type trimFile struct {
		mtime int64
		size  int64
		path  string
	}
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}

	var files []trimFile
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if kept[d.Name()] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Debug("trim: stat failed", "path", path, "error", err)
			return nil
		}
		files = append(files, trimFile{info.ModTime().UnixNano(), info.Size(), path})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].mtime < files[j].mtime })

	for _, f := range files {
		if err := os.Remove(f.path); err != nil {
			continue
		}
		current -= f.size
		if current <= maxBytes {
			break
		}
	}

	s.pruneEmptyDirs(root)
}

// pruneEmptyDirs removes empty subdirectories of root bottom-up.
// The root itself is kept. Best-effort: failures are ignored.
func (s *MaintService) pruneEmptyDirs(root string) {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	// Deepest first so parents emptied by child removal go too.
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err == nil && len(entries) == 0 {
			os.Remove(dirs[i])
		}
	}
}

// WipeTree deletes every direct child of root except names in exclude,
// item by item. A locked or otherwise undeletable child is logged and
// skipped, never aborting the wipe: one locked file must not block
// clearing the rest of the tree. A missing root is a no-op.
func (s *MaintService) WipeTree(root string, exclude ...string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("wipe: cannot read tree", "path", root, "error", err)
		}
		return
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	for _, entry := range entries {
		if excluded[entry.Name()] {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.logger.Debug("wipe: skipped locked item", "path", path, "error", err)
		}
	}
}

// cancelReader wraps a reader and polls the progress sink for
// cancellation once per CopyChunkSize bytes served.
type cancelReader struct {
	r        io.Reader
	progress ProgressSink
	served   int64
	nextPoll int64
}

func (c *cancelReader) Read(p []byte) (int, error) {
	if c.served >= c.nextPoll {
		if c.progress.Cancelled() {
			return 0, errCancelled
		}
		c.nextPoll += CopyChunkSize
	}
	n, err := c.r.Read(p)
	c.served += int64(n)
	return n, err
}

// cancelWriter is the write-side counterpart of cancelReader.
type cancelWriter struct {
	w        io.Writer
	progress ProgressSink
	written  int64
	nextPoll int64
}

func (c *cancelWriter) Write(p []byte) (int, error) {
	if c.written >= c.nextPoll {
		if c.progress.Cancelled() {
			return 0, errCancelled
		}
		c.nextPoll += CopyChunkSize
	}
	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}

// CopyToDestination streams a local file to a destination object in
// chunks. Returns false on any failure; errors never propagate past
// this boundary. Callers distinguish cancellation by polling the sink.
func (s *MaintService) CopyToDestination(localPath string, dest Destination, name string, progress ProgressSink) bool {
	f, err := os.Open(localPath)
	if err != nil {
		s.logger.Error("copy to destination failed", "path", localPath, "error", err)
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.logger.Error("copy to destination failed", "path", localPath, "error", err)
		return false
	}

	r := &cancelReader{r: f, progress: progress}
	if err := dest.Put(name, r, info.Size()); err != nil {
		s.logger.Error("copy to destination failed", "name", name, "error", err)
		return false
	}
	return true
}

// CopyFromSource streams a destination object to a local file in
// chunks, with the same failure containment as CopyToDestination.
func (s *MaintService) CopyFromSource(dest Destination, name string, localPath string, progress ProgressSink) bool {
	f, err := os.Create(localPath)
	if err != nil {
		s.logger.Error("copy from source failed", "path", localPath, "error", err)
		return false
	}

	w := &cancelWriter{w: f, progress: progress}
	err = dest.Get(name, w)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.logger.Error("copy from source failed", "name", name, "error", err)
		os.Remove(localPath)
		return false
	}
	return true
}

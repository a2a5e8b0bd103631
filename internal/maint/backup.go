package maint

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// mediaPrefix is the fixed archive location for the media tree,
	// regardless of where the media root actually lives on disk.
	mediaPrefix = "media/"

	// thumbnailMarker recreates the (excluded) Thumbnails directory on
	// restore as an empty directory.
	thumbnailMarker = "userdata/Thumbnails/"
)

// DefaultBackupName derives a timestamped archive name.
func (s *MaintService) DefaultBackupName() string {
	return "kodi_backup_" + s.clock.Now().Format("2006-01-02_15-04-05") + ".zip"
}

// Backup archives the Addons, UserData and Media trees into a single
// deflate zip, staged locally under Temp and then transferred to dest
// under the given object name. Backup never mutates the source trees,
// so cancellation is always safe and reported as "no changes".
func (s *MaintService) Backup(dest Destination, name string, progress ProgressSink) (result OpResult) {
	jid := s.beginJournal("Backup", name)
	defer func() { s.finishJournal(jid, result.Outcome) }()

	progress.Update(0, "Calculating files...")

	// Counting pass. Shares the walker (and therefore the exclusion
	// rules) with the writing pass below; the floor of 1 avoids a zero
	// divisor on an empty tree.
	roots := s.paths.backupRoots()
	total := 0
	for _, root := range roots {
		s.walkEligible(root, func(string, string) error {
			total++
			return nil
		})
	}
	if total == 0 {
		total = 1
	}

	if err := os.MkdirAll(s.paths.Temp, 0755); err != nil {
		s.logger.Error("backup: creating temp directory", "error", err)
		return failed("Could not create the local staging file.")
	}
	staged := filepath.Join(s.paths.Temp, name)

	zf, err := os.Create(staged)
	if err != nil {
		s.logger.Error("backup: creating staging file", "path", staged, "error", err)
		return failed("Could not create the local staging file.")
	}
	// The staging copy is removed regardless of transfer outcome.
	defer os.Remove(staged)

	zw := zip.NewWriter(zf)

	// Writing pass.
	current := 0
	addEntries := func(root backupRoot) error {
		return s.walkEligible(root, func(absPath, arcName string) error {
			s.writeArchiveFile(zw, absPath, arcName)
			current++
			progress.Update(current*100/total, "Backing up: "+filepath.Base(absPath))
			if progress.Cancelled() {
				return errCancelled
			}
			return nil
		})
	}

	err = addEntries(roots[0]) // addons
	if err == nil {
		err = addEntries(roots[1]) // userdata
	}
	if err == nil {
		// Explicit markers so restore can recreate the directory
		// skeleton: Thumbnails content is excluded entirely; media gets
		// a marker plus its real walk.
		s.writeDirectoryMarker(zw, thumbnailMarker)
		s.writeDirectoryMarker(zw, mediaPrefix)
		err = addEntries(roots[2]) // media
	}

	closeErr := zw.Close()
	if fileErr := zf.Close(); closeErr == nil {
		closeErr = fileErr
	}

	if err != nil { // only errCancelled escapes the walker
		return cancelled("Backup cancelled. No changes were made.")
	}
	if closeErr != nil {
		s.logger.Error("backup: finalizing archive", "error", closeErr)
		return failed("Could not write the backup archive.")
	}

	progress.Update(99, "Copying to destination...")
	if !s.CopyToDestination(staged, dest, name, progress) {
		if progress.Cancelled() {
			return cancelled("Backup cancelled. No changes were made.")
		}
		return failed("Could not copy backup to destination. Check path and permissions.")
	}

	s.logger.Info("backup complete", "name", name, "entries", current)
	return success("Backup created: " + name)
}

// walkEligible walks one backup root applying the exclusion rules and
// calls visit with each eligible file's absolute path and archive name
// (forward-slash separators). Unreadable subtrees are skipped. Only an
// error returned by visit stops the walk.
func (s *MaintService) walkEligible(root backupRoot, visit func(absPath, arcName string) error) error {
	relBase := s.paths.Home
	if root.Prefix != "" {
		relBase = root.Path
	}

	return filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root.Path {
				return filepath.SkipAll // missing root: nothing to archive
			}
			return nil
		}
		if d.IsDir() {
			if path == root.Path {
				return nil
			}
			if SkipDir(root.Kind, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if SkipFile(root.Kind, d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(relBase, path)
		if relErr != nil {
			return nil
		}
		return visit(path, root.Prefix+filepath.ToSlash(rel))
	})
}

// writeArchiveFile streams one file into the archive. Failures are
// swallowed per-file: a file that vanished or cannot be read between
// the counting and writing passes is simply skipped, at the cost of a
// progress total that may not match exactly. Totals are progress-only,
// never integrity-critical.
func (s *MaintService) writeArchiveFile(zw *zip.Writer, absPath, arcName string) {
	f, err := os.Open(absPath)
	if err != nil {
		s.logger.Debug("backup: skipped unreadable file", "path", absPath, "error", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.logger.Debug("backup: skipped unreadable file", "path", absPath, "error", err)
		return
	}

	hdr := &zip.FileHeader{
		Name:     arcName,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	hdr.SetMode(info.Mode())

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		s.logger.Debug("backup: skipped entry", "name", arcName, "error", err)
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Debug("backup: incomplete entry", "name", arcName, "error", err)
	}
}

// writeDirectoryMarker writes a zero-length entry with a trailing slash
// and directory mode, so extraction recreates an empty directory.
func (s *MaintService) writeDirectoryMarker(zw *zip.Writer, name string) {
	hdr := &zip.FileHeader{Name: name}
	hdr.SetMode(fs.ModeDir | 0775)
	if _, err := zw.CreateHeader(hdr); err != nil {
		s.logger.Debug("backup: marker entry failed", "name", name, "error", err)
	}
}

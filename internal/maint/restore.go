package maint

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	restoreArchiveName = "restore_temp.zip"
	restoreStagingName = "restore_staging"
)

// Restore replaces the live Addons, UserData and Media trees with the
// contents of a backup archive read from src under the given object
// name.
//
// Strict phase ordering, each gated on the previous: download to a
// local staging file, verify whole-archive integrity, extract into an
// isolated staging directory, and only then wipe the live trees and
// move staged content into place. Up to the end of extraction the
// operation is cancellable with no side effects. Once wiping begins
// there is no path back: a verified full replacement payload already
// exists on local disk, so completing as many moves as possible
// strictly dominates aborting.
//
// On success or partial failure the host process is forcibly
// terminated so in-memory state cannot overwrite the restored files.
func (s *MaintService) Restore(src Destination, name string, progress ProgressSink) OpResult {
	jid := s.beginJournal("Restore", name)
	result := s.restore(src, name, progress)
	s.finishJournal(jid, result.Outcome)

	if result.Outcome == Success || result.Outcome == PartialFailure {
		s.logger.Info("restore finished, terminating host", "outcome", result.Outcome.String())
		s.terminator.Terminate()
	}
	return result
}

func (s *MaintService) restore(src Destination, name string, progress ProgressSink) OpResult {
	if err := os.MkdirAll(s.paths.Temp, 0755); err != nil {
		s.logger.Error("restore: creating temp directory", "error", err)
		return failed("Could not create the local staging area.")
	}

	localZip := filepath.Join(s.paths.Temp, restoreArchiveName)
	staging := filepath.Join(s.paths.Temp, restoreStagingName)

	// Phase 1: download. Failure here has no side effects.
	progress.Update(5, "Downloading backup to temp...")
	if !s.CopyFromSource(src, name, localZip, progress) {
		if progress.Cancelled() {
			return cancelled("Restore cancelled. No changes were made.")
		}
		return failed("Could not read the backup file. Check the path and try again.")
	}

	cleanup := func() {
		os.RemoveAll(staging)
		os.Remove(localZip)
	}

	// Phase 2: fresh staging directory, replacing any leftover from a
	// prior aborted run.
	if err := os.RemoveAll(staging); err != nil {
		s.logger.Error("restore: clearing stale staging", "error", err)
	}
	if err := os.MkdirAll(staging, 0755); err != nil {
		s.logger.Error("restore: creating staging directory", "error", err)
		os.Remove(localZip)
		return failed("Could not create the local staging area.")
	}

	zr, err := zip.OpenReader(localZip)
	if err != nil {
		s.logger.Error("restore: opening archive", "error", err)
		cleanup()
		return failed("Backup is corrupted. Restore has been cancelled; no changes were made.")
	}

	// Phase 3: whole-archive integrity check before anything live is
	// touched. Every entry is read in full so CRC mismatches surface.
	progress.Update(10, "Verifying backup integrity...")
	if bad := verifyArchive(&zr.Reader); bad != "" {
		zr.Close()
		cleanup()
		s.logger.Error("restore: integrity check failed", "entry", bad)
		return OpResult{
			Outcome:  Failed,
			Message:  fmt.Sprintf("Backup is corrupted (failed integrity check on %s). No changes were made.", bad),
			BadEntry: bad,
		}
	}

	// Phase 4: extract everything into staging. Per-entry failures are
	// swallowed; cancellation is polled per entry and is still free of
	// side effects here.
	total := len(zr.File)
	if total == 0 {
		total = 1
	}
	for i, f := range zr.File {
		if progress.Cancelled() {
			zr.Close()
			cleanup()
			return cancelled("Restore cancelled. No changes were made.")
		}
		s.extractEntry(f, staging)
		progress.Update(10+i*60/total, "Extracting: "+f.Name)
	}
	zr.Close()

	// Phase 5: point of no return.
	progress.Update(75, "Applying restore (do NOT interrupt)...")
	for i, root := range s.paths.liveRoots() {
		progress.Update(75+i*5, "Wiping: "+root.Kind.String())
		s.WipeTree(root.Path)
	}

	// Phase 6: move staged content into place, accumulating failures.
	progress.Update(90, "Moving restored files into place...")
	moveErrors := s.moveStagedIntoPlace(staging)

	// Phase 7: unconditional cleanup.
	cleanup()
	progress.Update(100, "Restore complete")

	if len(moveErrors) > 0 {
		return OpResult{
			Outcome:    PartialFailure,
			Message:    "Restore completed with errors; some files could not be moved:",
			MoveErrors: moveErrors,
		}
	}
	return success("Restore completed.")
}

// verifyArchive reads every entry in full, returning the name of the
// first entry that fails its checksum or cannot be read, or "" if the
// archive is intact.
func verifyArchive(zr *zip.Reader) string {
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return f.Name
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return f.Name
		}
	}
	return ""
}

// extractEntry writes one archive entry into the staging directory.
// Entries under the media prefix are remapped into the staged media
// subtree; trailing-slash entries create empty directories. Failures
// are swallowed per-entry.
func (s *MaintService) extractEntry(f *zip.File, staging string) {
	name := f.Name
	if strings.HasPrefix(name, mediaPrefix) {
		name = "media/" + strings.TrimPrefix(name, mediaPrefix)
	}

	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		s.logger.Warn("restore: skipped unsafe entry", "name", f.Name)
		return
	}
	target := filepath.Join(staging, filepath.FromSlash(clean))

	if strings.HasSuffix(f.Name, "/") {
		if err := os.MkdirAll(target, 0755); err != nil {
			s.logger.Debug("restore: marker extraction failed", "name", f.Name, "error", err)
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		s.logger.Debug("restore: entry extraction failed", "name", f.Name, "error", err)
		return
	}
	rc, err := f.Open()
	if err != nil {
		s.logger.Debug("restore: entry extraction failed", "name", f.Name, "error", err)
		return
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		s.logger.Debug("restore: entry extraction failed", "name", f.Name, "error", err)
		return
	}
	_, err = io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.logger.Debug("restore: entry extraction failed", "name", f.Name, "error", err)
	}
}

// moveStagedIntoPlace moves every top-level staged entry to its live
// location. Recognized names have their children moved under the
// matching root; unrecognized names land directly under Home. Each
// failure is recorded and never stops subsequent moves.
func (s *MaintService) moveStagedIntoPlace(staging string) []MoveError {
	var moveErrors []MoveError
	record := func(item string, err error) {
		moveErrors = append(moveErrors, MoveError{Item: item, Cause: err})
		s.logger.Error("restore: move failed", "item", item, "error", err)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		record("staging", err)
		return moveErrors
	}

	for _, entry := range entries {
		srcPath := filepath.Join(staging, entry.Name())

		target, known := s.paths.stagingTarget(entry.Name())
		if !known {
			if err := s.moveReplace(srcPath, filepath.Join(s.paths.Home, entry.Name())); err != nil {
				record(entry.Name(), err)
			}
			continue
		}

		if !entry.IsDir() {
			if err := s.moveReplace(srcPath, filepath.Join(target, entry.Name())); err != nil {
				record(entry.Name(), err)
			}
			continue
		}

		if err := os.MkdirAll(target, 0755); err != nil {
			record(entry.Name(), err)
			continue
		}
		subs, err := os.ReadDir(srcPath)
		if err != nil {
			record(entry.Name(), err)
			continue
		}
		for _, sub := range subs {
			if err := s.moveReplace(filepath.Join(srcPath, sub.Name()), filepath.Join(target, sub.Name())); err != nil {
				record(sub.Name(), err)
			}
		}
	}
	return moveErrors
}

// moveReplace moves src to dst, removing any existing dst first so the
// move replaces rather than nesting inside a same-named target. Falls
// back to copy-and-delete when rename crosses filesystems.
func (s *MaintService) moveReplace(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing existing target: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// copyTree recursively copies src (file or directory) to dst,
// preserving file modes.
func copyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		_, err = io.Copy(out, in)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		return err
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

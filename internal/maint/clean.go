package maint

import (
	"os"
	"path/filepath"
)

// Clean clears the Temp and Packages trees and trims Thumbnails to the
// given MiB budget (0 disables trimming). The active log file named
// keepLog survives the Temp wipe. Runs on manual invocation and, via
// the CLI's startup mode, automatically after a grace delay.
func (s *MaintService) Clean(trimBudgetMiB int64, keepLog string, silent bool) (result OpResult) {
	jid := s.beginJournal("Clean", "")
	defer func() { s.finishJournal(jid, result.Outcome) }()

	s.WipeTree(s.paths.Temp, keepLog)
	s.WipeTree(s.paths.Packages)
	if trimBudgetMiB > 0 {
		s.TrimToSize(s.paths.Thumbnails, trimBudgetMiB<<20, keepLog)
	}

	msg := "Cleaning completed."
	if silent {
		msg = "Auto clean done."
	}
	s.notifier.Notify("Maintenance", msg)
	s.logger.Info("clean complete", "silent", silent)
	return success(msg)
}

// HardClean clears the Temp, Packages and Thumbnails trees completely
// and deletes the texture cache database files, then terminates the
// host so it rebuilds its texture cache from scratch. A locked texture
// database is skipped, never fatal.
func (s *MaintService) HardClean(keepLog string, progress ProgressSink) OpResult {
	jid := s.beginJournal("HardClean", "")

	progress.Update(20, "Clearing Temp folder...")
	s.WipeTree(s.paths.Temp, keepLog)

	progress.Update(40, "Clearing Packages folder...")
	s.WipeTree(s.paths.Packages)

	progress.Update(60, "Clearing Thumbnails folder...")
	s.WipeTree(s.paths.Thumbnails)

	progress.Update(80, "Deleting texture cache database...")
	entries, err := os.ReadDir(s.paths.Database)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !IsTextureDB(entry.Name()) {
				continue
			}
			path := filepath.Join(s.paths.Database, entry.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Info("hard clean: texture database locked, skipping", "path", path)
			}
		}
	}

	progress.Update(100, "Complete!")
	result := success("Hard clean completed.")
	s.finishJournal(jid, result.Outcome)

	s.logger.Info("hard clean finished, terminating host")
	s.terminator.Terminate()
	return result
}

package maint

// Reset wipes UserData entirely and wipes Addons except the running
// tool's own addon directory, returning the host to a fresh state.
// Nothing is staged or archived; the deletion is irreversible. The
// boundary layer must confirm with the user before calling. The host
// is terminated afterwards so it cannot write its in-memory state back
// over the freshly wiped tree.
func (s *MaintService) Reset(ownAddonID string, progress ProgressSink) OpResult {
	jid := s.beginJournal("Reset", "")

	progress.Update(10, "Wiping userdata...")
	s.WipeTree(s.paths.UserData)

	progress.Update(50, "Wiping addons...")
	s.WipeTree(s.paths.Addons, ownAddonID)

	progress.Update(100, "Complete!")
	result := success("Reset complete. Everything has been deleted.")
	s.finishJournal(jid, result.Outcome)

	s.logger.Info("reset finished, terminating host")
	s.terminator.Terminate()
	return result
}

package maint

// MaintService is the orchestration layer for all maintenance
// operations: backup, restore, cache cleaning, and factory reset.
// It performs no internal parallelism: every walk, checksum, and copy
// is strictly sequential, which keeps the staging/wipe/move ordering
// of restore trivially reasoned about. Overlapping invocations are the
// caller's problem to prevent; the core holds no locks.
type MaintService struct {
	paths      PathConfig
	journal    Journal
	logger     Logger
	clock      Clock
	idgen      IDGenerator
	notifier   Notifier
	terminator Terminator
}

// NewMaintService creates a MaintService with the provided dependencies.
func NewMaintService(paths PathConfig, journal Journal, logger Logger, clock Clock, idgen IDGenerator, notifier Notifier, terminator Terminator) *MaintService {
	return &MaintService{
		paths:      paths,
		journal:    journal,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
		notifier:   notifier,
		terminator: terminator,
	}
}

// Paths returns the resolved logical roots.
func (s *MaintService) Paths() PathConfig { return s.paths }

// beginJournal opens a journal entry for an operation. Journal failures
// are logged and swallowed; an empty ID means "not journaled".
func (s *MaintService) beginJournal(operation, detail string) string {
	id := s.idgen.New()
	if err := s.journal.Begin(id, operation, detail, s.clock.Now()); err != nil {
		s.logger.Warn("journal begin failed", "operation", operation, "error", err)
		return ""
	}
	return id
}

// finishJournal closes a journal entry with the operation's outcome.
func (s *MaintService) finishJournal(id string, outcome Outcome) {
	if id == "" {
		return
	}
	if err := s.journal.Finish(id, outcome.String(), s.clock.Now()); err != nil {
		s.logger.Warn("journal finish failed", "id", id, "error", err)
	}
}

package maint

import "time"

// JournalEntry is one recorded maintenance operation.
type JournalEntry struct {
	ID         string
	Operation  string
	Detail     string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the operation is running
}

// Journal records maintenance operations for the history command.
// The journal is advisory: implementations may fail, the core logs and
// continues, and a journal problem never blocks maintenance work.
type Journal interface {
	// Begin records the start of an operation under the given entry ID.
	Begin(id string, operation string, detail string, startedAt time.Time) error

	// Finish records the terminal status of a previously begun entry.
	Finish(id string, status string, finishedAt time.Time) error

	// Recent returns the most recent entries, newest first.
	Recent(limit int) ([]JournalEntry, error)

	// Close releases the underlying store.
	Close() error
}

// NopJournal discards all entries. Use in tests.
type NopJournal struct{}

func (NopJournal) Begin(string, string, string, time.Time) error { return nil }
func (NopJournal) Finish(string, string, time.Time) error        { return nil }
func (NopJournal) Recent(int) ([]JournalEntry, error)            { return nil, nil }
func (NopJournal) Close() error                                  { return nil }

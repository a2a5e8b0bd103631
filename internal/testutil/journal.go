package testutil

import (
	"testing"

	"lazymaint/internal/journal"
	"lazymaint/internal/maint"
)

// NewTestJournal creates an in-memory SQLite journal with the schema
// applied. The journal is automatically closed when the test completes.
func NewTestJournal(t *testing.T) maint.Journal {
	t.Helper()

	j, err := journal.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}

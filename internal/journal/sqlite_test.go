package journal_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lazymaint/internal/config"
	"lazymaint/internal/journal"
	"lazymaint/internal/maint"
)

func newJournal(t *testing.T) *journal.SQLiteJournal {
	t.Helper()

	j, err := journal.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteJournal(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("begin and finish record a complete entry", func(t *testing.T) {
		j := newJournal(t)

		if err := j.Begin("op-1", "Backup", "backup.zip", base); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := j.Finish("op-1", "success", base.Add(time.Minute)); err != nil {
			t.Fatalf("Finish() error = %v", err)
		}

		entries, err := j.Recent(10)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Recent() returned %d entries, want 1", len(entries))
		}
		e := entries[0]
		if e.ID != "op-1" || e.Operation != "Backup" || e.Detail != "backup.zip" {
			t.Errorf("entry = %+v", e)
		}
		if e.Status != "success" {
			t.Errorf("entry status = %q, want success", e.Status)
		}
		if !e.StartedAt.Equal(base) {
			t.Errorf("entry started at = %v, want %v", e.StartedAt, base)
		}
		if !e.FinishedAt.Equal(base.Add(time.Minute)) {
			t.Errorf("entry finished at = %v, want %v", e.FinishedAt, base.Add(time.Minute))
		}
	})

	t.Run("unfinished entries stay running with no finish time", func(t *testing.T) {
		j := newJournal(t)

		j.Begin("op-1", "Restore", "backup.zip", base)

		entries, _ := j.Recent(10)
		if len(entries) != 1 {
			t.Fatalf("Recent() returned %d entries, want 1", len(entries))
		}
		if entries[0].Status != "running" {
			t.Errorf("entry status = %q, want running", entries[0].Status)
		}
		if !entries[0].FinishedAt.IsZero() {
			t.Errorf("unfinished entry has finish time %v", entries[0].FinishedAt)
		}
	})

	t.Run("finish of an unknown id fails", func(t *testing.T) {
		j := newJournal(t)

		if err := j.Finish("nope", "success", base); err == nil {
			t.Error("Finish() of unknown id succeeded")
		}
	})

	t.Run("recent returns newest first and honors the limit", func(t *testing.T) {
		j := newJournal(t)

		for i, op := range []string{"Clean", "Backup", "Restore"} {
			j.Begin(op, op, "", base.Add(time.Duration(i)*time.Minute))
		}

		entries, err := j.Recent(2)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Recent(2) returned %d entries", len(entries))
		}
		if entries[0].Operation != "Restore" || entries[1].Operation != "Backup" {
			t.Errorf("entry order = %s, %s; want Restore, Backup", entries[0].Operation, entries[1].Operation)
		}
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		j := newJournal(t)

		j.Begin("op-1", "Clean", "", base)
		if err := j.Begin("op-1", "Clean", "", base); err == nil {
			t.Error("Begin() with duplicate id succeeded")
		}
	})
}

func TestFromConfig(t *testing.T) {
	t.Run("empty and none give the nop journal", func(t *testing.T) {
		for _, typ := range []string{"", "none"} {
			j, err := journal.FromConfig(config.JournalConfig{Type: typ})
			if err != nil {
				t.Fatalf("FromConfig(%q) error = %v", typ, err)
			}
			if _, ok := j.(maint.NopJournal); !ok {
				t.Errorf("FromConfig(%q) = %T, want NopJournal", typ, j)
			}
		}
	})

	t.Run("sqlite creates the database under data_dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "Database")
		j, err := journal.FromConfig(config.JournalConfig{Type: "sqlite", DataDir: dir})
		if err != nil {
			t.Fatalf("FromConfig() error = %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(filepath.Join(dir, "lazymaint-journal.db")); err != nil {
			t.Errorf("journal database not created: %v", err)
		}
	})

	t.Run("sqlite requires data_dir", func(t *testing.T) {
		if _, err := journal.FromConfig(config.JournalConfig{Type: "sqlite"}); err == nil {
			t.Error("FromConfig() without data_dir succeeded")
		}
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := journal.FromConfig(config.JournalConfig{Type: "redis"}); err == nil {
			t.Error("FromConfig() with unknown type succeeded")
		}
	})
}

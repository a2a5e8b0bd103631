package journal

import (
	"database/sql"
	"fmt"
	"time"

	"lazymaint/internal/journal/migrations"
	"lazymaint/internal/maint"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements maint.Journal using SQLite. The query
// surface is small enough (insert, update, select-recent) that the
// statements are written by hand rather than generated.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the journal database at path and
// brings its schema up to date. path can be ":memory:" in tests.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// SQLite ships with foreign keys off for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	// The host may hold the database directory busy; don't fail fast.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Begin records the start of an operation.
func (j *SQLiteJournal) Begin(id string, operation string, detail string, startedAt time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO journal_entries (id, operation, detail, status, started_at) VALUES (?, ?, ?, 'running', ?)`,
		id, operation, detail, startedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording operation start: %w", err)
	}
	return nil
}

// Finish records the terminal status of a previously begun entry.
func (j *SQLiteJournal) Finish(id string, status string, finishedAt time.Time) error {
	res, err := j.db.Exec(
		`UPDATE journal_entries SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("recording operation finish: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("no journal entry with id %s", id)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (j *SQLiteJournal) Recent(limit int) ([]maint.JournalEntry, error) {
	rows, err := j.db.Query(
		`SELECT id, operation, detail, status, started_at, finished_at
		 FROM journal_entries ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	var entries []maint.JournalEntry
	for rows.Next() {
		var e maint.JournalEntry
		var finished sql.NullTime
		if err := rows.Scan(&e.ID, &e.Operation, &e.Detail, &e.Status, &e.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		if finished.Valid {
			e.FinishedAt = finished.Time
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading journal entries: %w", err)
	}
	return entries, nil
}

// Close releases the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Compile-time check that SQLiteJournal implements maint.Journal
var _ maint.Journal = (*SQLiteJournal)(nil)

// Package history keeps a local SQLite journal of test executions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one terminal execution outcome.
type Entry struct {
	ID            string
	ExplorationID string
	URL           string
	TestCaseID    int
	State         string // completed, failed, timeout, transport_error
	Status        string // status reported by the service, empty on transport errors
	Source        string // primary or secondary endpoint
	Message       string
	Duration      time.Duration
	CreatedAt     time.Time
}

// Repository stores execution entries.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at dbPath.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS executions (
		id TEXT PRIMARY KEY,
		exploration_id TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		test_case_id INTEGER NOT NULL,
		state TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_executions_exploration ON executions(exploration_id);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize tables: %w", err)
	}
	return nil
}

// Record stores an entry, filling ID and CreatedAt when unset.
func (r *Repository) Record(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO executions (id, exploration_id, url, test_case_id, state, status, source, message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.ExplorationID, e.URL, e.TestCaseID, e.State, e.Status, e.Source, e.Message,
		e.Duration.Milliseconds(), e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record execution: %w", err)
	}
	return &e, nil
}

// Filter narrows List.
type Filter struct {
	ExplorationID string
	TestCaseID    int
	Limit         int
}

// List returns entries, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT id, exploration_id, url, test_case_id, state, status, source, message, duration_ms, created_at
		FROM executions
		WHERE (? = '' OR exploration_id = ?)
		  AND (? = 0 OR test_case_id = ?)
		ORDER BY rowid DESC
	`
	args := []interface{}{f.ExplorationID, f.ExplorationID, f.TestCaseID, f.TestCaseID}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.ExplorationID, &e.URL, &e.TestCaseID, &e.State, &e.Status,
			&e.Source, &e.Message, &durationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry and returns how many were removed.
func (r *Repository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM executions`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear executions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

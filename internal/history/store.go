// Package history remembers downloads after they leave the server's
// progress list, in a small sqlite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	OutcomeCompleted = "completed"
	OutcomeVanished  = "vanished" // left the list before reaching 100%
)

// Record is one finished download.
type Record struct {
	ID           int64
	DownloadID   string
	Title        string
	LastProgress float64
	Outcome      string
	FirstSeen    time.Time
	FinishedAt   time.Time
}

// Store persists finished downloads.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	// Ensure the database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Ping makes sure the file is actually accessible and the DSN is valid
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not migrate history database: %w", err)
	}
	return s, nil
}

// Add stores r and fills in its ID.
func (s *Store) Add(ctx context.Context, r *Record) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO finished_downloads (download_id, title, last_progress, outcome, first_seen, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.DownloadID, r.Title, r.LastProgress, r.Outcome, r.FirstSeen.UnixMilli(), r.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// List returns the most recent records first. limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, download_id, title, last_progress, outcome, first_seen, finished_at
	          FROM finished_downloads ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			r                 Record
			firstSeen, finish int64
		)
		if err := rows.Scan(&r.ID, &r.DownloadID, &r.Title, &r.LastProgress, &r.Outcome, &firstSeen, &finish); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.FirstSeen = time.UnixMilli(firstSeen)
		r.FinishedAt = time.UnixMilli(finish)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Clear removes every record and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM finished_downloads`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

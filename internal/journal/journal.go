// Package journal keeps a SQLite log of label submissions.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

type Entry struct {
	ID      int64                 `json:"id"`
	Seq     uint64                `json:"seq"`
	Command model.CommandName     `json:"command"`
	Printer string                `json:"printer"`
	State   model.SubmissionState `json:"state"`
	Message string                `json:"message"`
	At      time.Time             `json:"at"`
}

type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path. ":memory:"
// gives a private in-memory journal.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection so ":memory:" stays a single database
	db.SetMaxOpenConns(1)

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS submissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  seq INTEGER NOT NULL,
  command TEXT NOT NULL,
  printer TEXT NOT NULL,
  state TEXT NOT NULL,
  message TEXT NOT NULL,
  at_unix_ms INTEGER NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create submissions table: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one finished submission.
func (j *Journal) Record(ctx context.Context, command model.CommandName, printer string, o model.Outcome) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stm, err := tx.PrepareContext(ctx, `
INSERT INTO submissions (
  seq,
  command,
  printer,
  state,
  message,
  at_unix_ms
) VALUES (
  ?, ?, ?, ?, ?, ?
);`)
	if err != nil {
		return err
	}
	defer stm.Close()

	at := o.At
	if at.IsZero() {
		at = time.Now()
	}
	if _, err := stm.ExecContext(ctx, int64(o.Seq), string(command), printer, string(o.State), o.Message, at.UnixMilli()); err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, seq, command, printer, state, message, at_unix_ms
FROM submissions
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e   Entry
			seq int64
			ms  int64
		)
		if err := rows.Scan(&e.ID, &seq, &e.Command, &e.Printer, &e.State, &e.Message, &ms); err != nil {
			return nil, err
		}
		e.Seq = uint64(seq)
		e.At = time.UnixMilli(ms)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Package store persists expenses, budgets, categories and achievements in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/theirongolddev/spendwise/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a record addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = time.RFC3339Nano

// Store is the SQLite-backed finance database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and seeds the
// default categories.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedCategories(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding categories: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// write runs fn, retrying while another process holds the write lock.
func (s *Store) write(fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	)
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// exec runs a single write statement under retry.
func (s *Store) exec(query string, args ...interface{}) (sql.Result, error) {
	var res sql.Result
	err := s.write(func() error {
		var err error
		res, err = s.db.Exec(query, args...)
		return err
	})
	return res, err
}

// tx runs fn inside a transaction under retry.
func (s *Store) tx(fn func(*sql.Tx) error) error {
	return s.write(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// parseTime decodes a stored timestamp; column names the field in errors.
func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: bad %s %q: %w", column, s, err)
	}
	return t, nil
}

func (s *Store) seedCategories() error {
	return s.tx(func(tx *sql.Tx) error {
		for _, c := range model.DefaultCategories() {
			_, err := tx.Exec(`INSERT OR IGNORE INTO categories (id, name, emoji, color, icon)
				VALUES (?, ?, ?, ?, ?)`, c.ID, c.Name, c.Emoji, c.Color, string(c.Icon))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Package sqlite implements the vault store on a local SQLite database.
//
// The store follows a modify-then-save model: mutations accumulate in a
// single long-lived IMMEDIATE transaction and hit the disk only when Save
// commits it. Closing the store without saving rolls everything back, so
// an abandoned session leaves the vault untouched.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an entry ID does not exist in the queried table
var ErrNotFound = errors.New("entry not found")

// Store implements the vault storage contract using SQLite
type Store struct {
	db   *sql.DB
	conn *sql.Conn // dedicated connection carrying the write transaction
	path string
	inTx bool
}

// Open opens (or creates) the vault database at path
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	// WAL mode keeps readers (backup, watch) unblocked by the open write
	// transaction
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}

	// Every statement must run on the one connection that owns the write
	// transaction, and an in-memory database exists only on its own
	// connection, so the pool is capped at a single connection.
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("failed to ping vault database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("failed to initialize vault schema: %w", err)
	}

	return &Store{db: db, conn: conn, path: path}, nil
}

// Path returns the backing database file path
func (s *Store) Path() string {
	return s.path
}

// beginIfNeeded starts the write transaction before the first mutation.
//
// IMMEDIATE acquires the write lock up front, so a competing writer fails
// fast here instead of at commit time. We use raw Exec instead of BeginTx
// because database/sql does not expose transaction modes and the sqlite3
// driver's BeginTx always uses DEFERRED.
func (s *Store) beginIfNeeded(ctx context.Context) error {
	if s.inTx {
		return nil
	}
	if _, err := s.conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("failed to begin immediate transaction: %w", err)
	}
	s.inTx = true
	return nil
}

// Save commits all changes made since the last Save. A no-op when nothing
// has changed.
func (s *Store) Save() error {
	if !s.inTx {
		return nil
	}
	if _, err := s.conn.ExecContext(context.Background(), "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit vault changes: %w", err)
	}
	s.inTx = false
	return nil
}

// CreateBackup writes a consistent snapshot of the last saved state to the
// destination path using VACUUM INTO. Fails if unsaved changes are pending,
// since the snapshot could not represent them.
func (s *Store) CreateBackup(destination string) error {
	if s.inTx {
		return fmt.Errorf("cannot create a backup with unsaved changes pending")
	}
	if destination == "" {
		return fmt.Errorf("backup destination is required")
	}
	if _, err := s.conn.ExecContext(context.Background(), "VACUUM INTO ?", destination); err != nil {
		return fmt.Errorf("failed to back up vault to %s: %w", destination, err)
	}
	return nil
}

// Close rolls back any unsaved changes and releases the database
func (s *Store) Close() error {
	if s.inTx {
		// Context.Background so cleanup happens even if the caller's
		// context is already canceled
		_, _ = s.conn.ExecContext(context.Background(), "ROLLBACK")
		s.inTx = false
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	return s.db.Close()
}

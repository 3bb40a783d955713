// Package vault defines the storage contract for password-entry stores.
//
// The optimization engine never talks to a database directly: it goes
// through the Store interface, which any backend can satisfy. The sqlite
// subpackage provides the production implementation; tests substitute
// in-memory fakes.
package vault

import (
	"context"

	"github.com/samarthya/keysweep/internal/types"
	"github.com/samarthya/keysweep/internal/vault/sqlite"
)

// Store defines the interface for vault storage backends
type Store interface {
	// Entries
	ListEntries(ctx context.Context) ([]*types.Entry, error)
	GetEntry(ctx context.Context, id string) (*types.Entry, error)
	SearchEntries(ctx context.Context, query string) ([]*types.Entry, error)
	AddEntry(ctx context.Context, entry *types.Entry) error
	UpdateEntry(ctx context.Context, id string, update *types.EntryUpdate) error

	// DeleteEntry removes an entry. With useRecycleBin the entry is moved
	// to the recycle bin and can be restored; without it the delete is
	// permanent.
	DeleteEntry(ctx context.Context, id string, useRecycleBin bool) error

	// Recycle bin
	ListRecycleBin(ctx context.Context) ([]*types.Entry, error)
	RestoreEntry(ctx context.Context, id string) error

	// Groups
	ListGroups(ctx context.Context) ([]string, error)

	// CreateBackup writes a consistent snapshot of the vault to the
	// destination path. The snapshot reflects the last saved state, not
	// unsaved in-flight changes.
	CreateBackup(destination string) error

	// Save persists all changes made since the last Save. Changes that
	// are never saved are discarded on Close.
	Save() error

	// Path returns the backing database file path
	Path() string

	// Lifecycle
	Close() error
}

// Config holds vault storage configuration
type Config struct {
	// Path is the SQLite database file path.
	// Special value ":memory:" creates an in-memory vault (useful for tests).
	Path string
}

// Open opens the vault at cfg.Path with the SQLite backend
func Open(ctx context.Context, cfg *Config) (Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	path := cfg.Path
	if path == "" {
		path = "keysweep.db"
	}
	return sqlite.Open(ctx, path)
}

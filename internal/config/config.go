// Package config holds environment-driven configuration for keysweep.
//
// Every knob has a safe default; environment variables override defaults
// and are validated before use. A `.env` file is honored when present
// (loaded by the CLI entry point), so local setups never need to export
// anything by hand.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samarthya/keysweep/internal/vault"
)

// Config holds runtime configuration for the keysweep CLI
type Config struct {
	// BackupDir is where safety backups are written.
	// Empty means beside the database file.
	// Default: ""
	BackupDir string

	// AuditDir is where audit logs are written.
	// Empty means beside the database file.
	// Default: ""
	AuditDir string

	// UseRecycleBin is the default disposition for 'rm': entries go to the
	// recycle bin unless this is false or --permanent is passed. Optimize
	// sessions always recycle regardless of this setting.
	// Default: true
	UseRecycleBin bool

	// AutoApprove skips the interactive prompt during optimize and keeps
	// the most recently modified entry of every group.
	// Default: false
	AutoApprove bool

	// WatchDebounceMS is how long watch mode waits after a file change
	// before rescanning, to coalesce bursts of writes.
	// Default: 500, Range: 50-60000
	WatchDebounceMS int
}

// DefaultConfig returns the default keysweep configuration
//
// These defaults are chosen to:
// - Keep backups and audit logs next to the vault they describe
// - Make deletions recoverable twice over (recycle bin + backup)
// - Always ask before deleting anything
// - Debounce watch rescans enough to ride out editor save bursts
func DefaultConfig() Config {
	return Config{
		BackupDir:       "",
		AuditDir:        "",
		UseRecycleBin:   true,
		AutoApprove:     false,
		WatchDebounceMS: 500,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.WatchDebounceMS < 50 {
		return fmt.Errorf("watch_debounce_ms must be at least 50 (got %d)", c.WatchDebounceMS)
	}
	if c.WatchDebounceMS > 60000 {
		return fmt.Errorf("watch_debounce_ms too large (got %d, max 60000)", c.WatchDebounceMS)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	backupDir := c.BackupDir
	if backupDir == "" {
		backupDir = "<beside database>"
	}
	auditDir := c.AuditDir
	if auditDir == "" {
		auditDir = "<beside database>"
	}
	return fmt.Sprintf(
		"Config{BackupDir: %s, AuditDir: %s, UseRecycleBin: %t, AutoApprove: %t, WatchDebounce: %dms}",
		backupDir, auditDir, c.UseRecycleBin, c.AutoApprove, c.WatchDebounceMS,
	)
}

// WatchDebounce returns the watch debounce as a duration
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// BackupPathFor returns the timestamped backup destination for a database,
// honoring BackupDir when set
func (c Config) BackupPathFor(dbPath string, now time.Time) string {
	path := vault.BackupPath(dbPath, now)
	if c.BackupDir == "" {
		return path
	}
	return filepath.Join(c.BackupDir, filepath.Base(path))
}

// AuditPathFor returns the timestamped audit log destination for a
// database, honoring AuditDir when set
func (c Config) AuditPathFor(dbPath string, now time.Time) string {
	path := vault.AuditPath(dbPath, now)
	if c.AuditDir == "" {
		return path
	}
	return filepath.Join(c.AuditDir, filepath.Base(path))
}

// FromEnv creates a Config from environment variables, falling back to
// defaults
//
// Environment variables:
//   - KEYSWEEP_BACKUP_DIR: Directory for safety backups (default: beside the database)
//   - KEYSWEEP_AUDIT_DIR: Directory for audit logs (default: beside the database)
//   - KEYSWEEP_USE_RECYCLE_BIN: Route deletions through the recycle bin (default: true)
//   - KEYSWEEP_AUTO_APPROVE: Keep the newest entry without prompting (default: false)
//   - KEYSWEEP_WATCH_DEBOUNCE_MS: Watch-mode rescan debounce in milliseconds (default: 500)
//
// Returns an error if any environment variable has an invalid value.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvString("KEYSWEEP_BACKUP_DIR", &cfg.BackupDir); err != nil {
		return cfg, err
	}
	if err := parseEnvString("KEYSWEEP_AUDIT_DIR", &cfg.AuditDir); err != nil {
		return cfg, err
	}
	if err := parseEnvBool("KEYSWEEP_USE_RECYCLE_BIN", &cfg.UseRecycleBin); err != nil {
		return cfg, err
	}
	if err := parseEnvBool("KEYSWEEP_AUTO_APPROVE", &cfg.AutoApprove); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("KEYSWEEP_WATCH_DEBOUNCE_MS", &cfg.WatchDebounceMS); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvBool parses a bool from an environment variable
func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvString parses a string from an environment variable
func parseEnvString(key string, dest *string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	*dest = value
	return nil
}

package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// SessionLock is the lock file format used to claim exclusive ownership of
// a vault for the duration of an optimization session. Exactly one session
// may own a vault at a time; a second keysweep process must refuse to
// start against a locked vault.
type SessionLock struct {
	Holder    string    `json:"holder"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`
	Version   string    `json:"version"`
}

// LockPath returns the lock file path for a database file
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// AcquireLock creates the lock file for a vault. It fails if another live
// process already holds the lock; a lock whose process no longer exists is
// treated as stale and overwritten. Returns the lock file path for cleanup
// on shutdown (use defer ReleaseLock).
func AcquireLock(dbPath, holder, version string) (lockPath string, err error) {
	lockPath = LockPath(dbPath)

	if data, err := os.ReadFile(lockPath); err == nil {
		var existing SessionLock
		if json.Unmarshal(data, &existing) == nil {
			if isProcessAlive(existing.PID, existing.Hostname) {
				return "", fmt.Errorf("vault is locked by another session (%s, PID %d on %s, started %s)",
					existing.Holder, existing.PID, existing.Hostname,
					existing.StartedAt.Format(time.RFC3339))
			}
			// Stale lock - will overwrite
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}

	lock := SessionLock{
		Holder:    holder,
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
		Version:   version,
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal lock: %w", err)
	}

	if err := os.WriteFile(lockPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to create vault lock: %w", err)
	}

	return lockPath, nil
}

// ReleaseLock removes the lock file. Safe to call with an empty path or
// when the file is already gone.
func ReleaseLock(lockPath string) error {
	if lockPath == "" {
		return nil
	}
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove vault lock: %w", err)
	}
	return nil
}

// isProcessAlive checks if a process with the given PID exists on the given
// hostname. Remote hosts cannot be checked and are assumed alive.
func isProcessAlive(pid int, hostname string) bool {
	currentHost, err := os.Hostname()
	if err != nil {
		// Can't check hostname, assume remote/alive
		return true
	}

	if !strings.EqualFold(hostname, currentHost) {
		// Remote host - can't check, assume alive
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 probes for existence without delivering anything
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	// EPERM means the process exists but belongs to someone else.
	// If we can't verify, assume alive.
	if err == syscall.EPERM {
		return true
	}

	return false
}

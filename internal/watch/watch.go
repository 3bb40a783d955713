// Package watch re-runs the duplicate scan whenever the vault database
// changes on disk. Bursts of writes are debounced, and rescans are rate
// limited so another process rewriting the file cannot spin the scanner.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/samarthya/keysweep/internal/dedup"
	"github.com/samarthya/keysweep/internal/vault"
)

// Config holds watcher configuration
type Config struct {
	// Store is the vault to scan. The watcher only reads from it.
	Store vault.Store

	// Debounce is how long to wait after the last file event before
	// rescanning. Default: 500ms.
	Debounce time.Duration

	// Out receives the scan reports. Default: os.Stdout.
	Out io.Writer

	// Logger receives diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// Watcher rescans a vault for duplicates when its database file changes
type Watcher struct {
	store    vault.Store
	debounce time.Duration
	out      io.Writer
	logger   *slog.Logger
	limiter  *rate.Limiter
	scans    int
}

// New creates a watcher over the given vault
func New(cfg *Config) (*Watcher, error) {
	if cfg == nil || cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		store:    cfg.Store,
		debounce: debounce,
		out:      out,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(1), 1),
	}, nil
}

// Scans returns how many scan passes have run
func (w *Watcher) Scans() int {
	return w.scans
}

// Run scans once immediately, then blocks rescanning on every database
// change until the context is canceled.
//
// The watch is on the database's directory, not the file itself: sqlite
// rewrites and WAL checkpoints would otherwise detach a file-level watch.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.store.Path())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := w.Scan(ctx); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("database changed", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			timer = nil
			fire = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := w.Scan(ctx); err != nil {
				return err
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn("watch error", "error", werr)
		}
	}
}

// relevant filters directory events down to writes touching the database
// file or its sqlite side files
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(w.store.Path())
	name := filepath.Base(event.Name)
	switch name {
	case base, base + "-wal", base + "-journal":
		return true
	}
	return false
}

// Scan runs one duplicate pass and prints the result
func (w *Watcher) Scan(ctx context.Context) error {
	entries, err := w.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan vault: %w", err)
	}

	for _, entry := range entries {
		if reason, degraded := dedup.DegradedURL(entry.URL); degraded {
			w.logger.Debug("degraded URL input, key still usable",
				"entry", entry.ID, "reason", reason)
		}
	}

	report := dedup.FindDuplicates(entries)
	w.scans++

	cyan := color.New(color.FgCyan).SprintFunc()
	stamp := cyan(time.Now().Format("15:04:05"))
	if !report.HasDuplicates() {
		fmt.Fprintf(w.out, "[%s] no duplicates (%d entries scanned)\n", stamp, report.TotalEntries)
		return nil
	}

	fmt.Fprintf(w.out, "[%s] duplicates found\n%s\n", stamp, dedup.RenderText(report))
	return nil
}

package watch

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarthya/keysweep/internal/types"
	"github.com/samarthya/keysweep/internal/vault/sqlite"
)

// syncBuffer guards a bytes.Buffer written from the watcher goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{})
	assert.Error(t, err)
}

func TestScanReportsCleanVault(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddEntry(ctx, &types.Entry{
		Title: "Solo", Username: "alice", URL: "https://example.com", Password: "p",
	}))

	var out syncBuffer
	w, err := New(&Config{Store: store, Out: &out})
	require.NoError(t, err)

	require.NoError(t, w.Scan(ctx))
	assert.Equal(t, 1, w.Scans())
	assert.Contains(t, out.String(), "no duplicates (1 entries scanned)")
}

func TestScanReportsDuplicates(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddEntry(ctx, &types.Entry{
		Title: "GitHub", Username: "alice", URL: "https://github.com", Password: "p",
	}))
	require.NoError(t, store.AddEntry(ctx, &types.Entry{
		Title: "GitHub copy", Username: "alice", URL: "github.com", Password: "p",
	}))

	var out syncBuffer
	w, err := New(&Config{Store: store, Out: &out})
	require.NoError(t, err)

	require.NoError(t, w.Scan(ctx))
	got := out.String()
	assert.Contains(t, got, "duplicates found")
	assert.Contains(t, got, "github.com|alice")
	assert.NotContains(t, got, "\"p\"")
}

func TestScanLogsDegradedURLs(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddEntry(ctx, &types.Entry{
		Title: "Legacy FTP", Username: "alice", URL: "ftp://files.example.com", Password: "p",
	}))

	var out, logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w, err := New(&Config{Store: store, Out: &out, Logger: logger})
	require.NoError(t, err)

	require.NoError(t, w.Scan(ctx))
	got := logs.String()
	assert.Contains(t, got, "degraded URL input")
	assert.Contains(t, got, "unrecognized scheme ftp")
	assert.NotContains(t, got, "\"p\"")
}

func TestRelevantFiltersEvents(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	defer store.Close()

	w, err := New(&Config{Store: store})
	require.NoError(t, err)

	dir := filepath.Dir(store.Path())
	tests := []struct {
		name     string
		event    fsnotify.Event
		relevant bool
	}{
		{"db write", fsnotify.Event{Name: store.Path(), Op: fsnotify.Write}, true},
		{"db create", fsnotify.Event{Name: store.Path(), Op: fsnotify.Create}, true},
		{"wal write", fsnotify.Event{Name: store.Path() + "-wal", Op: fsnotify.Write}, true},
		{"journal write", fsnotify.Event{Name: store.Path() + "-journal", Op: fsnotify.Write}, true},
		{"db chmod only", fsnotify.Event{Name: store.Path(), Op: fsnotify.Chmod}, false},
		{"unrelated file", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
		{"shm write", fsnotify.Event{Name: store.Path() + "-shm", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.relevant, w.relevant(tt.event))
		})
	}
}

func TestRunRescansOnChange(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "vault.db")

	// Writer store mutates the database from the outside
	writer, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	defer writer.Close()
	require.NoError(t, writer.AddEntry(ctx, &types.Entry{
		Title: "GitHub", Username: "alice", URL: "https://github.com", Password: "p",
	}))
	require.NoError(t, writer.Save())

	// Reader store feeds the watcher
	reader, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	defer reader.Close()

	var out syncBuffer
	w, err := New(&Config{
		Store:    reader,
		Out:      &out,
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- w.Run(runCtx) }()

	// Initial pass is clean
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "no duplicates")
	}, 5*time.Second, 20*time.Millisecond)

	// A duplicate written from outside triggers a rescan
	require.NoError(t, writer.AddEntry(ctx, &types.Entry{
		Title: "GitHub copy", Username: "alice", URL: "github.com", Password: "p",
	}))
	require.NoError(t, writer.Save())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "duplicates found")
	}, 5*time.Second, 20*time.Millisecond)

	stop()
	err = <-done
	assert.ErrorIs(t, err, context.Canceled)
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarthya/keysweep/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEntry(title string) *types.Entry {
	return &types.Entry{
		Title:     title,
		Username:  "alice@example.com",
		Password:  "hunter2",
		URL:       "https://example.com",
		GroupPath: "Internet/Dev",
		Notes:     "test fixture",
		Tags:      []string{"work", "dev"},
	}
}

func TestOpenCreatesEmptyVault(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	bin, err := store.ListRecycleBin(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bin)
}

func TestAddAndGetEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))
	require.NotEmpty(t, entry.ID, "missing ID should be generated")
	require.False(t, entry.CreatedAt.IsZero(), "missing created_at should default")

	got, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "GitHub", got.Title)
	assert.Equal(t, "alice@example.com", got.Username)
	assert.Equal(t, "hunter2", got.Password)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, "Internet/Dev", got.GroupPath)
	assert.Equal(t, []string{"work", "dev"}, got.Tags)
	assert.True(t, got.ModifiedAt.Equal(entry.ModifiedAt),
		"modified_at should round-trip exactly, got %v want %v", got.ModifiedAt, entry.ModifiedAt)
}

func TestAddEntryPreservesExplicitTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	modified := time.Date(2024, 11, 2, 8, 0, 0, 0, time.UTC)
	entry := sampleEntry("Old entry")
	entry.ID = "fixed-id"
	entry.CreatedAt = modified.Add(-time.Hour)
	entry.ModifiedAt = modified

	require.NoError(t, store.AddEntry(ctx, entry))

	got, err := store.GetEntry(ctx, "fixed-id")
	require.NoError(t, err)
	assert.True(t, got.ModifiedAt.Equal(modified))
}

func TestAddEntryValidationFailure(t *testing.T) {
	store := newTestStore(t)

	err := store.AddEntry(context.Background(), &types.Entry{Title: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestGetEntryNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetEntry(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSearchEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	github := sampleEntry("GitHub")
	github.URL = "https://github.com"
	gitlab := sampleEntry("GitLab")
	gitlab.URL = "https://gitlab.com"
	bank := sampleEntry("Bank")
	bank.URL = "https://bank.example"
	bank.Username = "bob"
	for _, e := range []*types.Entry{github, gitlab, bank} {
		require.NoError(t, store.AddEntry(ctx, e))
	}

	git, err := store.SearchEntries(ctx, "GIT")
	require.NoError(t, err)
	assert.Len(t, git, 2, "case-insensitive title match")

	byUser, err := store.SearchEntries(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "Bank", byUser[0].Title)

	all, err := store.SearchEntries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty query lists everything")
}

func TestUpdateEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))
	before, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)

	newPassword := "correct-horse"
	newTags := []string{"personal"}
	err = store.UpdateEntry(ctx, entry.ID, &types.EntryUpdate{
		Password: &newPassword,
		Tags:     &newTags,
	})
	require.NoError(t, err)

	got, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "correct-horse", got.Password)
	assert.Equal(t, []string{"personal"}, got.Tags)
	assert.Equal(t, "GitHub", got.Title, "unnamed fields stay untouched")
	assert.False(t, got.ModifiedAt.Before(before.ModifiedAt), "update must bump modified_at")
}

func TestUpdateEntryErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	title := "x"
	err := store.UpdateEntry(ctx, "missing", &types.EntryUpdate{Title: &title})
	assert.True(t, errors.Is(err, ErrNotFound))

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))
	err = store.UpdateEntry(ctx, entry.ID, &types.EntryUpdate{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fields to update")
}

func TestDeleteEntryToRecycleBin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))

	require.NoError(t, store.DeleteEntry(ctx, entry.ID, true))

	_, err := store.GetEntry(ctx, entry.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "entry should be gone from the vault")

	bin, err := store.ListRecycleBin(ctx)
	require.NoError(t, err)
	require.Len(t, bin, 1)
	assert.Equal(t, entry.ID, bin[0].ID)
	assert.Equal(t, "hunter2", bin[0].Password, "recycled entry keeps its data")
}

func TestDeleteEntryPermanent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))

	require.NoError(t, store.DeleteEntry(ctx, entry.ID, false))

	bin, err := store.ListRecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin, "permanent delete must not touch the recycle bin")
}

func TestDeleteEntryNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteEntry(context.Background(), "missing", true)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.DeleteEntry(context.Background(), "missing", false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRestoreEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))
	original, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteEntry(ctx, entry.ID, true))
	require.NoError(t, store.RestoreEntry(ctx, entry.ID))

	restored, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Password, restored.Password)
	assert.True(t, restored.ModifiedAt.Equal(original.ModifiedAt),
		"restore keeps original timestamps")

	bin, err := store.ListRecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin, "restored entry leaves the bin")
}

func TestRestoreEntryNotInBin(t *testing.T) {
	store := newTestStore(t)

	err := store.RestoreEntry(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := sampleEntry("A")
	a.GroupPath = "Work/Email"
	b := sampleEntry("B")
	b.GroupPath = "Internet"
	c := sampleEntry("C")
	c.GroupPath = "Work/Email"
	d := sampleEntry("D")
	d.GroupPath = ""
	for _, e := range []*types.Entry{a, b, c, d} {
		require.NoError(t, store.AddEntry(ctx, e))
	}

	groups, err := store.ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Internet", "Work/Email"}, groups)
}

// TestCloseDiscardsUnsavedChanges is the core of the modify-then-save
// contract: mutations that were never saved must not survive a reopen.
func TestCloseDiscardsUnsavedChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.AddEntry(ctx, sampleEntry("Unsaved")))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "unsaved entry must be rolled back on close")
}

func TestSavePersistsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.AddEntry(ctx, sampleEntry("Saved")))
	require.NoError(t, store.Save())
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Saved", entries[0].Title)
}

func TestSaveWithoutChangesIsNoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Save())
}

func TestCreateBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.db")
	backupPath := filepath.Join(dir, "vault.backup.20250615_123000.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddEntry(ctx, sampleEntry("GitHub")))
	require.NoError(t, store.Save())
	require.NoError(t, store.CreateBackup(backupPath))

	restored, err := Open(ctx, backupPath)
	require.NoError(t, err)
	defer restored.Close()

	entries, err := restored.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "GitHub", entries[0].Title)
}

func TestCreateBackupRejectsPendingChanges(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddEntry(ctx, sampleEntry("Pending")))

	err := store.CreateBackup(filepath.Join(dir, "backup.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsaved changes")
}

func TestDeletesVisibleBeforeSave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := sampleEntry("GitHub")
	require.NoError(t, store.AddEntry(ctx, entry))
	require.NoError(t, store.Save())

	require.NoError(t, store.DeleteEntry(ctx, entry.ID, true))

	// Within the open transaction the delete is already observable
	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	bin, err := store.ListRecycleBin(ctx)
	require.NoError(t, err)
	assert.Len(t, bin, 1)
}

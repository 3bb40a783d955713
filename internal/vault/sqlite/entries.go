package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samarthya/keysweep/internal/types"
)

const entryColumns = "id, title, username, password, url, group_path, notes, tags, otp_secret, created_at, modified_at"

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*types.Entry, error) {
	var e types.Entry
	var tags string
	err := row.Scan(&e.ID, &e.Title, &e.Username, &e.Password, &e.URL,
		&e.GroupPath, &e.Notes, &tags, &e.OTPSecret, &e.CreatedAt, &e.ModifiedAt)
	if err != nil {
		return nil, err
	}
	e.Tags = splitTags(tags)
	return &e, nil
}

// Tags are stored comma-joined in a single column. Entry validation
// rejects commas inside individual tags, so the join is unambiguous.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// ListEntries returns all entries ordered by group path, then title
func (s *Store) ListEntries(ctx context.Context) ([]*types.Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY group_path, lower(title), id")
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// GetEntry returns the entry with the given ID
func (s *Store) GetEntry(ctx context.Context, id string) (*types.Entry, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", id, err)
	}
	return entry, nil
}

// SearchEntries returns entries whose title, username, URL, or group path
// contains the query, case-insensitively
func (s *Store) SearchEntries(ctx context.Context, query string) ([]*types.Entry, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.ListEntries(ctx)
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE instr(lower(title), ?) > 0
		   OR instr(lower(username), ?) > 0
		   OR instr(lower(url), ?) > 0
		   OR instr(lower(group_path), ?) > 0
		ORDER BY group_path, lower(title), id
	`, q, q, q, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// AddEntry inserts a new entry. A missing ID is generated; missing
// timestamps default to now.
func (s *Store) AddEntry(ctx context.Context, entry *types.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.ModifiedAt.IsZero() {
		entry.ModifiedAt = now
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.beginIfNeeded(ctx); err != nil {
		return err
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Title, entry.Username, entry.Password, entry.URL,
		entry.GroupPath, entry.Notes, joinTags(entry.Tags), entry.OTPSecret,
		entry.CreatedAt.UTC(), entry.ModifiedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add entry %s: %w", entry.ID, err)
	}
	return nil
}

// UpdateEntry applies a partial update to an existing entry and bumps its
// modification time
func (s *Store) UpdateEntry(ctx context.Context, id string, update *types.EntryUpdate) error {
	if update == nil || update.Empty() {
		return fmt.Errorf("no fields to update for entry %s", id)
	}

	var set []string
	var args []any
	add := func(clause string, value any) {
		set = append(set, clause)
		args = append(args, value)
	}
	if update.Title != nil {
		add("title = ?", *update.Title)
	}
	if update.Username != nil {
		add("username = ?", *update.Username)
	}
	if update.Password != nil {
		add("password = ?", *update.Password)
	}
	if update.URL != nil {
		add("url = ?", *update.URL)
	}
	if update.GroupPath != nil {
		add("group_path = ?", *update.GroupPath)
	}
	if update.Notes != nil {
		add("notes = ?", *update.Notes)
	}
	if update.Tags != nil {
		add("tags = ?", joinTags(*update.Tags))
	}
	if update.OTPSecret != nil {
		add("otp_secret = ?", *update.OTPSecret)
	}
	add("modified_at = ?", time.Now().UTC())
	args = append(args, id)

	if err := s.beginIfNeeded(ctx); err != nil {
		return err
	}
	res, err := s.conn.ExecContext(ctx,
		"UPDATE entries SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// DeleteEntry removes an entry, moving it to the recycle bin when
// useRecycleBin is set
func (s *Store) DeleteEntry(ctx context.Context, id string, useRecycleBin bool) error {
	if err := s.beginIfNeeded(ctx); err != nil {
		return err
	}

	if useRecycleBin {
		// OR REPLACE: re-deleting an ID that already sits in the bin
		// keeps the most recent copy
		res, err := s.conn.ExecContext(ctx, `
			INSERT OR REPLACE INTO recycle_bin
				(id, title, username, password, url, group_path, notes, tags, otp_secret, created_at, modified_at, deleted_at)
			SELECT id, title, username, password, url, group_path, notes, tags, otp_secret, created_at, modified_at, ?
			FROM entries WHERE id = ?
		`, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to move entry %s to recycle bin: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check recycle result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}

	res, err := s.conn.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListRecycleBin returns deleted entries, most recently deleted first
func (s *Store) ListRecycleBin(ctx context.Context) ([]*types.Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM recycle_bin ORDER BY deleted_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list recycle bin: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// RestoreEntry moves an entry from the recycle bin back into the vault,
// preserving its original timestamps
func (s *Store) RestoreEntry(ctx context.Context, id string) error {
	if err := s.beginIfNeeded(ctx); err != nil {
		return err
	}

	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		SELECT id, title, username, password, url, group_path, notes, tags, otp_secret, created_at, modified_at
		FROM recycle_bin WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to restore entry %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check restore result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s (not in recycle bin)", ErrNotFound, id)
	}

	if _, err := s.conn.ExecContext(ctx, "DELETE FROM recycle_bin WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to clear recycle bin entry %s: %w", id, err)
	}
	return nil
}

// ListGroups returns the distinct group paths in use, sorted
func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT DISTINCT group_path FROM entries WHERE group_path <> '' ORDER BY group_path")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

func collectEntries(rows *sql.Rows) ([]*types.Entry, error) {
	var entries []*types.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

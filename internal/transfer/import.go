package transfer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/samarthya/keysweep/internal/dedup"
	"github.com/samarthya/keysweep/internal/types"
	"github.com/samarthya/keysweep/internal/vault"
)

// ImportResult summarizes one import run
type ImportResult struct {
	// Imported is the number of entries added to the vault
	Imported int `json:"imported"`

	// Skipped lists the titles of rows skipped because an entry with the
	// same normalized URL+username already exists
	Skipped []string `json:"skipped,omitempty"`

	// Failed is the number of rows that could not be imported
	Failed int `json:"failed"`

	// Errors describes each failed row
	Errors []string `json:"errors,omitempty"`
}

// ImportCSV reads entries from r and adds them to the store. Rows whose
// normalized URL+username key collides with an existing entry (or an
// earlier row of the same file) are skipped; rows with a blank URL or
// username never count as duplicates. The caller is responsible for
// saving the store afterwards.
//
// The first row must be a header containing at least a "title" column;
// recognized columns are title, username, password, url, notes, tags, and
// group, in any order.
func ImportCSV(ctx context.Context, r io.Reader, store vault.Store) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["title"]; !ok {
		return nil, fmt.Errorf("CSV header has no title column (got: %s)", strings.Join(header, ", "))
	}

	existing, err := store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing entries: %w", err)
	}
	seen := make(map[dedup.NormalizedKey]bool, len(existing))
	for _, e := range existing {
		if key := dedup.KeyFor(e); key.Complete() {
			seen[key] = true
		}
	}

	result := &ImportResult{}
	row := 1
	for {
		row++
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}

		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(fields) {
				return ""
			}
			return fields[idx]
		}

		entry := &types.Entry{
			Title:     cell("title"),
			Username:  cell("username"),
			Password:  cell("password"),
			URL:       cell("url"),
			Notes:     cell("notes"),
			Tags:      splitTagCell(cell("tags")),
			GroupPath: cell("group"),
		}

		key := dedup.KeyFor(entry)
		if key.Complete() && seen[key] {
			result.Skipped = append(result.Skipped, entry.Title)
			continue
		}

		if err := store.AddEntry(ctx, entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		result.Imported++
		if key.Complete() {
			seen[key] = true
		}
	}

	return result, nil
}

// splitTagCell splits a comma-joined tag cell, dropping blanks
func splitTagCell(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

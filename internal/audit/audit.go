// Package audit records committed optimization decisions in an append-only
// text log. One line per committed group: what was kept, what was deleted,
// and when. The format is stable and parseable so an operator can reconcile
// a partially-committed run against the backup.
package audit

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Record represents one committed optimization decision
type Record struct {
	// Timestamp is when the group's deletions were applied
	Timestamp time.Time `json:"timestamp"`

	// GroupKey is the canonical "url|username" form of the duplicate key
	GroupKey string `json:"group_key"`

	// KeptEntryID is the entry that survived
	KeptEntryID string `json:"kept_entry_id"`

	// DeletedEntryIDs are the entries removed, in deletion order
	DeletedEntryIDs []string `json:"deleted_entry_ids"`
}

// Validate checks if the record has valid field values
func (r *Record) Validate() error {
	if r.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if r.KeptEntryID == "" {
		return fmt.Errorf("kept_entry_id is required")
	}
	if len(r.DeletedEntryIDs) == 0 {
		return fmt.Errorf("at least one deleted entry is required")
	}
	for _, id := range r.DeletedEntryIDs {
		if id == "" {
			return fmt.Errorf("deleted entry IDs must be non-empty")
		}
		if id == r.KeptEntryID {
			return fmt.Errorf("kept entry %s also listed as deleted", id)
		}
	}
	if r.GroupKey == "" {
		return fmt.Errorf("group_key is required")
	}
	return nil
}

// Line renders the record in its single-line on-disk form:
//
//	<RFC3339 timestamp> kept=<id> deleted=<id,id,...> key=<url>|<username>
//
// The key is last because it is the only field that may contain spaces.
func (r *Record) Line() string {
	return fmt.Sprintf("%s kept=%s deleted=%s key=%s",
		r.Timestamp.UTC().Format(time.RFC3339),
		r.KeptEntryID,
		strings.Join(r.DeletedEntryIDs, ","),
		r.GroupKey)
}

// ParseRecord parses a single audit line back into a Record
func ParseRecord(line string) (*Record, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty audit line")
	}

	fields := strings.SplitN(line, " ", 4)
	if len(fields) != 4 {
		return nil, fmt.Errorf("malformed audit line: expected 4 fields, got %d", len(fields))
	}

	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return nil, fmt.Errorf("malformed audit timestamp %q: %w", fields[0], err)
	}

	kept, ok := strings.CutPrefix(fields[1], "kept=")
	if !ok {
		return nil, fmt.Errorf("malformed audit line: missing kept= field")
	}
	deleted, ok := strings.CutPrefix(fields[2], "deleted=")
	if !ok {
		return nil, fmt.Errorf("malformed audit line: missing deleted= field")
	}
	key, ok := strings.CutPrefix(fields[3], "key=")
	if !ok {
		return nil, fmt.Errorf("malformed audit line: missing key= field")
	}

	record := &Record{
		Timestamp:       ts,
		GroupKey:        key,
		KeptEntryID:     kept,
		DeletedEntryIDs: strings.Split(deleted, ","),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audit record: %w", err)
	}
	return record, nil
}

// Log appends records to an audit file
type Log struct {
	path string
}

// New creates a log writing to the given path. The file is created on
// first append, never truncated.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the audit file path
func (l *Log) Path() string {
	return l.path
}

// Append writes one record to the end of the audit file
func (l *Log) Append(r *Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("refusing to append invalid audit record: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(r.Line() + "\n"); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// ReadAll parses every record in an audit file. Blank lines are skipped;
// a malformed line aborts the read with its line number.
func ReadAll(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	defer f.Close()

	var records []*Record
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("audit log %s line %d: %w", path, lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log %s: %w", path, err)
	}
	return records, nil
}

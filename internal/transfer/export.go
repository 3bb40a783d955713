package transfer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samarthya/keysweep/internal/types"
)

// ExportOptions controls what an export emits
type ExportOptions struct {
	// Format selects the output encoding
	Format Format

	// IncludePasswords writes passwords in clear text. Exports are not
	// encrypted, so this defaults to off everywhere.
	IncludePasswords bool
}

// Export writes all entries to w in the selected format
func Export(w io.Writer, entries []*types.Entry, opts ExportOptions) error {
	if !opts.Format.IsValid() {
		return fmt.Errorf("invalid export format: %q", opts.Format)
	}

	switch opts.Format {
	case FormatCSV:
		return exportCSV(w, entries, opts.IncludePasswords)
	case FormatJSON:
		return exportJSON(w, entries, opts.IncludePasswords)
	case FormatYAML:
		return exportYAML(w, entries, opts.IncludePasswords)
	}
	return fmt.Errorf("invalid export format: %q", opts.Format)
}

// exportCSV writes one row per entry. Without passwords the password
// column is omitted entirely, not left blank.
func exportCSV(w io.Writer, entries []*types.Entry, includePasswords bool) error {
	cw := csv.NewWriter(w)

	header := []string{"title", "username", "password", "url", "notes", "tags", "group"}
	if !includePasswords {
		header = []string{"title", "username", "url", "notes", "tags", "group"}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		row := []string{e.Title, e.Username, e.Password, e.URL, e.Notes,
			strings.Join(e.Tags, ","), e.GroupPath}
		if !includePasswords {
			row = []string{e.Title, e.Username, e.URL, e.Notes,
				strings.Join(e.Tags, ","), e.GroupPath}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", e.Title, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func exportJSON(w io.Writer, entries []*types.Entry, includePasswords bool) error {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		records = append(records, recordFromEntry(e, includePasswords))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return nil
}

func exportYAML(w io.Writer, entries []*types.Entry, includePasswords bool) error {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		records = append(records, recordFromEntry(e, includePasswords))
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode YAML export: %w", err)
	}
	return nil
}

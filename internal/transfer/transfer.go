// Package transfer moves entries in and out of a vault as CSV, JSON, or
// YAML. Exports can include or withhold passwords; imports skip rows that
// would duplicate an existing entry, using the same URL+username
// normalization the duplicate scanner uses.
package transfer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samarthya/keysweep/internal/types"
)

// Format identifies a transfer file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValid checks if the format value is valid
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// ParseFormat parses a format name, accepting the usual aliases
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected csv, json, or yaml)", s)
}

// FormatFromPath guesses the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format: %s has no extension", path)
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("cannot infer format from %s: %w", path, err)
	}
	return format, nil
}

// record is the flat on-disk shape shared by all three formats
type record struct {
	Title    string   `json:"title" yaml:"title"`
	Username string   `json:"username" yaml:"username"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty"`
	URL      string   `json:"url" yaml:"url"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Group    string   `json:"group,omitempty" yaml:"group,omitempty"`
}

func recordFromEntry(e *types.Entry, includePassword bool) record {
	r := record{
		Title:    e.Title,
		Username: e.Username,
		URL:      e.URL,
		Notes:    e.Notes,
		Tags:     e.Tags,
		Group:    e.GroupPath,
	}
	if includePassword {
		r.Password = e.Password
	}
	return r
}

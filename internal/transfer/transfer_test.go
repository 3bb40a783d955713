package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/samarthya/keysweep/internal/types"
	"github.com/samarthya/keysweep/internal/vault/sqlite"
)

func exportFixture() []*types.Entry {
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	return []*types.Entry{
		{
			ID: "e1", Title: "GitHub", Username: "user1", Password: "pass1",
			URL: "https://github.com", Notes: "Notes 1",
			Tags: []string{"work", "dev"}, GroupPath: "Internet",
			CreatedAt: now, ModifiedAt: now,
		},
		{
			ID: "e2", Title: "GitLab", Username: "user2", Password: "pass2",
			URL: "https://gitlab.com", Notes: "Notes 2",
			Tags: []string{"work"}, GroupPath: "Internet",
			CreatedAt: now, ModifiedAt: now,
		},
	}
}

func TestExportCSVWithPasswords(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, exportFixture(), ExportOptions{Format: FormatCSV, IncludePasswords: true})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"title", "username", "password", "url", "notes", "tags", "group"}, rows[0])
	assert.Equal(t, []string{"GitHub", "user1", "pass1", "https://github.com", "Notes 1", "work,dev", "Internet"}, rows[1])
	assert.Equal(t, "pass2", rows[2][2])
}

func TestExportCSVWithoutPasswords(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, exportFixture(), ExportOptions{Format: FormatCSV})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "pass1")
	assert.NotContains(t, out, "pass2")

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "username", "url", "notes", "tags", "group"}, rows[0])
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, exportFixture(), ExportOptions{Format: FormatJSON})
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "GitHub", records[0]["title"])
	assert.NotContains(t, records[0], "password")

	buf.Reset()
	err = Export(&buf, exportFixture(), ExportOptions{Format: FormatJSON, IncludePasswords: true})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Equal(t, "pass1", records[0]["password"])
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, exportFixture(), ExportOptions{Format: FormatYAML, IncludePasswords: true})
	require.NoError(t, err)

	var records []record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "GitHub", records[0].Title)
	assert.Equal(t, "pass1", records[0].Password)
	assert.Equal(t, []string{"work", "dev"}, records[0].Tags)
}

func TestExportInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, exportFixture(), ExportOptions{Format: Format("xml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid export format")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input       string
		want        Format
		expectError bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" csv ", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.expectError {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	got, err := FormatFromPath("/exports/vault.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, got)

	_, err = FormatFromPath("/exports/vault")
	assert.Error(t, err)

	_, err = FormatFromPath("/exports/vault.xml")
	assert.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	input := strings.Join([]string{
		"title,username,password,url,notes,tags,group",
		"Test1,user1,pass1,https://test1.com,Notes 1,\"tag1,tag2\",Internet",
		"Test2,user2,pass2,https://test2.com,Notes 2,tag3,Work",
	}, "\n")

	result, err := ImportCSV(ctx, strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Skipped)

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byTitle := make(map[string]*types.Entry)
	for _, e := range entries {
		byTitle[e.Title] = e
	}
	require.Contains(t, byTitle, "Test1")
	assert.Equal(t, []string{"tag1", "tag2"}, byTitle["Test1"].Tags)
	assert.Equal(t, "Internet", byTitle["Test1"].GroupPath)
	assert.Equal(t, "pass1", byTitle["Test1"].Password)
}

func TestImportCSVSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddEntry(ctx, &types.Entry{
		Title: "Existing", Username: "user", Password: "pass",
		URL: "https://existing.com",
	}))

	// Same key modulo normalization, plus one genuinely new row
	input := strings.Join([]string{
		"title,username,password,url,notes,tags,group",
		"Existing,USER,pass,existing.com/,,,Root",
		"New Entry,newuser,newpass,https://new.com,,,Root",
	}, "\n")

	result, err := ImportCSV(ctx, strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{"Existing"}, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestImportCSVSkipsIntraFileDuplicates(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	input := strings.Join([]string{
		"title,username,password,url",
		"First,alice,p1,https://example.com",
		"Second,alice,p2,example.com",
	}, "\n")

	result, err := ImportCSV(ctx, strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{"Second"}, result.Skipped)
}

func TestImportCSVBlankKeysNeverDuplicate(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	// Both rows lack a URL: identical usernames must not collide
	input := strings.Join([]string{
		"title,username,password,url",
		"Local One,alice,p1,",
		"Local Two,alice,p2,",
	}, "\n")

	result, err := ImportCSV(ctx, strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Skipped)
}

func TestImportCSVFailedRows(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	// Second row has no title, which entry validation rejects
	input := strings.Join([]string{
		"title,username,password,url",
		"Good,alice,p1,https://a.example",
		",bob,p2,https://b.example",
	}, "\n")

	result, err := ImportCSV(ctx, strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 3")
}

func TestImportCSVHeaderValidation(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = ImportCSV(ctx, strings.NewReader(""), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")

	_, err = ImportCSV(ctx, strings.NewReader("username,password\nalice,p1"), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title column")
}

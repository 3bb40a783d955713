package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return &Record{
		Timestamp:       time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC),
		GroupKey:        "github.com|alice@example.com",
		KeptEntryID:     "keep-1",
		DeletedEntryIDs: []string{"del-1", "del-2"},
	}
}

func TestRecordLine(t *testing.T) {
	line := testRecord().Line()
	assert.Equal(t,
		"2025-06-15T12:30:00Z kept=keep-1 deleted=del-1,del-2 key=github.com|alice@example.com",
		line)
}

func TestRecordRoundTrip(t *testing.T) {
	original := testRecord()

	parsed, err := ParseRecord(original.Line())
	require.NoError(t, err)

	assert.True(t, parsed.Timestamp.Equal(original.Timestamp))
	assert.Equal(t, original.GroupKey, parsed.GroupKey)
	assert.Equal(t, original.KeptEntryID, parsed.KeptEntryID)
	assert.Equal(t, original.DeletedEntryIDs, parsed.DeletedEntryIDs)
}

func TestRecordRoundTripKeyWithSpaces(t *testing.T) {
	record := testRecord()
	record.GroupKey = "intranet.example|john smith"

	parsed, err := ParseRecord(record.Line())
	require.NoError(t, err)
	assert.Equal(t, "intranet.example|john smith", parsed.GroupKey)
}

func TestParseRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "empty", line: ""},
		{name: "too few fields", line: "2025-06-15T12:30:00Z kept=a"},
		{name: "bad timestamp", line: "not-a-time kept=a deleted=b key=k|u"},
		{name: "missing kept prefix", line: "2025-06-15T12:30:00Z keep=a deleted=b key=k|u"},
		{name: "missing deleted prefix", line: "2025-06-15T12:30:00Z kept=a removed=b key=k|u"},
		{name: "missing key prefix", line: "2025-06-15T12:30:00Z kept=a deleted=b group=k|u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestRecordValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, testRecord().Validate())
	})

	t.Run("zero timestamp", func(t *testing.T) {
		r := testRecord()
		r.Timestamp = time.Time{}
		assert.Error(t, r.Validate())
	})

	t.Run("no deletions", func(t *testing.T) {
		r := testRecord()
		r.DeletedEntryIDs = nil
		assert.Error(t, r.Validate())
	})

	t.Run("kept listed as deleted", func(t *testing.T) {
		r := testRecord()
		r.DeletedEntryIDs = []string{"del-1", "keep-1"}
		assert.Error(t, r.Validate())
	})

	t.Run("missing key", func(t *testing.T) {
		r := testRecord()
		r.GroupKey = ""
		assert.Error(t, r.Validate())
	})
}

func TestLogAppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.audit.20250615_123000.log")
	log := New(path)

	require.NoError(t, log.Append(testRecord()))

	_, err := os.Stat(path)
	require.NoError(t, err, "append should create the file")
}

func TestLogAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log := New(path)

	first := testRecord()
	second := testRecord()
	second.KeptEntryID = "keep-2"
	second.DeletedEntryIDs = []string{"del-3"}
	second.GroupKey = "gitlab.com|alice@example.com"

	require.NoError(t, log.Append(first))
	require.NoError(t, log.Append(second))

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2, "both appends must survive")
	assert.Equal(t, "keep-1", records[0].KeptEntryID)
	assert.Equal(t, "keep-2", records[1].KeptEntryID)
}

func TestLogAppendRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log := New(path)

	bad := testRecord()
	bad.KeptEntryID = ""
	assert.Error(t, log.Append(bad))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "invalid record must not create the file")
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	content := testRecord().Line() + "\n\n" + testRecord().Line() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	records, err := ReadAll(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadAllReportsLineNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	content := testRecord().Line() + "\ngarbage line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := ReadAll(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

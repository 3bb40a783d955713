package types

import (
	"strings"
	"testing"
	"time"
)

func validEntry() Entry {
	now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	return Entry{
		ID:         "entry-1",
		Title:      "GitHub",
		Username:   "alice@example.com",
		Password:   "hunter2",
		URL:        "https://github.com",
		GroupPath:  "Internet/Dev",
		Tags:       []string{"work", "dev"},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Entry)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid entry",
			mutate: func(e *Entry) {},
		},
		{
			name:   "minimal entry",
			mutate: func(e *Entry) { *e = Entry{ID: "x", Title: "Note"} },
		},
		{
			name:        "missing id",
			mutate:      func(e *Entry) { e.ID = "" },
			expectError: true,
			errorMsg:    "id is required",
		},
		{
			name:        "missing title",
			mutate:      func(e *Entry) { e.Title = "" },
			expectError: true,
			errorMsg:    "title is required",
		},
		{
			name:        "title too long",
			mutate:      func(e *Entry) { e.Title = strings.Repeat("x", 501) },
			expectError: true,
			errorMsg:    "500 characters",
		},
		{
			name:   "title at limit",
			mutate: func(e *Entry) { e.Title = strings.Repeat("x", 500) },
		},
		{
			name:        "empty group segment",
			mutate:      func(e *Entry) { e.GroupPath = "Internet//Dev" },
			expectError: true,
			errorMsg:    "empty segments",
		},
		{
			name:        "comma in tag",
			mutate:      func(e *Entry) { e.Tags = []string{"work,dev"} },
			expectError: true,
			errorMsg:    "commas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(&entry)
			err := entry.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorMsg)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEntryDisplayName(t *testing.T) {
	entry := validEntry()
	if got := entry.DisplayName(); got != "GitHub" {
		t.Errorf("DisplayName() = %q, want GitHub", got)
	}

	entry.Title = ""
	if got := entry.DisplayName(); got != "entry-1" {
		t.Errorf("DisplayName() with empty title = %q, want entry ID", got)
	}
}

func TestEntryUpdateEmpty(t *testing.T) {
	if empty := (&EntryUpdate{}).Empty(); !empty {
		t.Errorf("zero-value update should be empty")
	}

	title := "New title"
	if empty := (&EntryUpdate{Title: &title}).Empty(); empty {
		t.Errorf("update with a title should not be empty")
	}

	// A pointer to the zero value still counts as a change
	blank := ""
	if empty := (&EntryUpdate{Password: &blank}).Empty(); empty {
		t.Errorf("clearing the password is a change, not an empty update")
	}

	tags := []string{}
	if empty := (&EntryUpdate{Tags: &tags}).Empty(); empty {
		t.Errorf("clearing tags is a change, not an empty update")
	}
}

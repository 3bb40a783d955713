package types

import (
	"fmt"
	"strings"
	"time"
)

// Entry represents a single credential record in a vault
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Username   string    `json:"username"`
	Password   string    `json:"password,omitempty"`
	URL        string    `json:"url,omitempty"`
	GroupPath  string    `json:"group_path,omitempty"` // Slash-delimited, e.g. "Work/Email"
	Notes      string    `json:"notes,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	OTPSecret  string    `json:"otp_secret,omitempty"` // Base32 TOTP seed, empty for most entries
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Validate checks if the entry has valid field values
func (e *Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	if len(e.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(e.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(e.Title))
	}
	if strings.Contains(e.GroupPath, "//") {
		return fmt.Errorf("group path must not contain empty segments: %s", e.GroupPath)
	}
	for _, tag := range e.Tags {
		if strings.Contains(tag, ",") {
			return fmt.Errorf("tag must not contain commas: %q", tag)
		}
	}
	return nil
}

// DisplayName returns a human-readable identifier for prompts and listings.
// Falls back to the entry ID when the title is empty.
func (e *Entry) DisplayName() string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// EntryUpdate carries partial changes to an existing entry. Nil fields are
// left untouched by Store.UpdateEntry.
type EntryUpdate struct {
	Title     *string
	Username  *string
	Password  *string
	URL       *string
	GroupPath *string
	Notes     *string
	Tags      *[]string
	OTPSecret *string
}

// Empty reports whether the update would change nothing
func (u *EntryUpdate) Empty() bool {
	return u.Title == nil && u.Username == nil && u.Password == nil &&
		u.URL == nil && u.GroupPath == nil && u.Notes == nil &&
		u.Tags == nil && u.OTPSecret == nil
}

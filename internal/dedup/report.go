package dedup

import (
	"fmt"
	"strings"
	"time"

	"github.com/samarthya/keysweep/internal/types"
)

// timeFormat is the timestamp layout used in text report output
const timeFormat = "2006-01-02 15:04"

// RenderText renders a report as plain text for terminal display or file
// output. The renderer is pure: no color codes, no I/O. Passwords never
// appear in the output, only the fact that a group's passwords differ.
func RenderText(r *DuplicateReport) string {
	var b strings.Builder

	if !r.HasDuplicates() {
		fmt.Fprintf(&b, "No duplicates found (%d entries scanned)\n", r.TotalEntries)
		return b.String()
	}

	fmt.Fprintf(&b, "Scanned %d entries: %d duplicate group(s), %d duplicate entries, %d redundant\n",
		r.TotalEntries, len(r.Groups), r.TotalDuplicates, r.RedundantEntries)

	for i, g := range r.Groups {
		b.WriteString("\n")
		conflict := ""
		if g.HasPasswordConflict {
			conflict = "  [passwords differ]"
		}
		fmt.Fprintf(&b, "Group %d: %s (%d entries)%s\n", i+1, g.Key, len(g.Entries), conflict)
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "  - %s\n", entryLine(e))
		}
	}

	return b.String()
}

// entryLine formats one entry for the text report. Group path and URL are
// included so the operator can tell apart copies that live in different
// folders or point at different raw URLs.
func entryLine(e *types.Entry) string {
	parts := []string{fmt.Sprintf("%-24s", e.DisplayName())}
	parts = append(parts, "user="+e.Username)
	if e.URL != "" {
		parts = append(parts, "url="+e.URL)
	}
	if e.GroupPath != "" {
		parts = append(parts, "group="+e.GroupPath)
	}
	parts = append(parts, "modified="+e.ModifiedAt.Format(timeFormat))
	return strings.Join(parts, "  ")
}

// RenderJSON renders a report as a tree of maps, slices, and primitives
// ready for encoding/json or yaml marshaling. Passwords never appear in
// the output.
func RenderJSON(r *DuplicateReport) map[string]any {
	groups := make([]map[string]any, 0, len(r.Groups))
	for _, g := range r.Groups {
		entries := make([]map[string]any, 0, len(g.Entries))
		for _, e := range g.Entries {
			entries = append(entries, map[string]any{
				"id":          e.ID,
				"title":       e.Title,
				"username":    e.Username,
				"url":         e.URL,
				"group_path":  e.GroupPath,
				"modified_at": e.ModifiedAt.UTC().Format(time.RFC3339),
			})
		}
		groups = append(groups, map[string]any{
			"key": map[string]any{
				"url":      g.Key.URL,
				"username": g.Key.Username,
			},
			"count":                 len(g.Entries),
			"has_password_conflict": g.HasPasswordConflict,
			"entries":               entries,
		})
	}

	return map[string]any{
		"total_entries":     r.TotalEntries,
		"duplicate_groups":  len(r.Groups),
		"total_duplicates":  r.TotalDuplicates,
		"redundant_entries": r.RedundantEntries,
		"groups":            groups,
	}
}

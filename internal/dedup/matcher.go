package dedup

import (
	"fmt"
	"sort"

	"github.com/samarthya/keysweep/internal/types"
)

// DuplicateGroup is a set of two or more entries that resolve to the same
// normalized key
type DuplicateGroup struct {
	// Key is the normalized (url, username) pair shared by every entry
	Key NormalizedKey `json:"key"`

	// Entries holds the colliding entries in first-seen scan order.
	// Always has at least two elements in a reported group.
	Entries []*types.Entry `json:"entries"`

	// HasPasswordConflict is true when the group spans more than one
	// distinct password value. Conflicting groups need operator attention:
	// deleting the wrong copy would lose a live credential.
	HasPasswordConflict bool `json:"has_password_conflict"`
}

// Size returns the number of entries in the group
func (g *DuplicateGroup) Size() int {
	return len(g.Entries)
}

// Newest returns the most recently modified entry in the group
func (g *DuplicateGroup) Newest() *types.Entry {
	var newest *types.Entry
	for _, e := range g.Entries {
		if newest == nil || e.ModifiedAt.After(newest.ModifiedAt) {
			newest = e
		}
	}
	return newest
}

// Oldest returns the least recently modified entry in the group
func (g *DuplicateGroup) Oldest() *types.Entry {
	var oldest *types.Entry
	for _, e := range g.Entries {
		if oldest == nil || e.ModifiedAt.Before(oldest.ModifiedAt) {
			oldest = e
		}
	}
	return oldest
}

// Contains reports whether the group holds an entry with the given ID
func (g *DuplicateGroup) Contains(entryID string) bool {
	for _, e := range g.Entries {
		if e.ID == entryID {
			return true
		}
	}
	return false
}

// DuplicateReport is the result of one duplicate scan over a vault.
// It is derived data: recomputed per scan, never persisted.
type DuplicateReport struct {
	// TotalEntries is the number of entries scanned, including non-duplicates
	TotalEntries int `json:"total_entries"`

	// Groups holds the duplicate groups, largest first, ties broken by
	// key order (url, then username)
	Groups []*DuplicateGroup `json:"groups"`

	// TotalDuplicates is the number of entries that belong to some group
	TotalDuplicates int `json:"total_duplicates"`

	// RedundantEntries is the number of entries that could be removed
	// while keeping one per group: sum of (size - 1) over all groups
	RedundantEntries int `json:"redundant_entries"`
}

// HasDuplicates reports whether the scan found any duplicate groups
func (r *DuplicateReport) HasDuplicates() bool {
	return len(r.Groups) > 0
}

// ConflictCount returns the number of groups with a password conflict
func (r *DuplicateReport) ConflictCount() int {
	count := 0
	for _, g := range r.Groups {
		if g.HasPasswordConflict {
			count++
		}
	}
	return count
}

// Validate checks if the report is internally consistent
func (r *DuplicateReport) Validate() error {
	if r.TotalEntries < 0 {
		return fmt.Errorf("total_entries cannot be negative (got %d)", r.TotalEntries)
	}
	duplicates := 0
	redundant := 0
	for i, g := range r.Groups {
		if len(g.Entries) < 2 {
			return fmt.Errorf("group %d has %d entries (minimum 2)", i, len(g.Entries))
		}
		if !g.Key.Complete() {
			return fmt.Errorf("group %d has an incomplete key: %q", i, g.Key)
		}
		for _, e := range g.Entries {
			if KeyFor(e) != g.Key {
				return fmt.Errorf("group %d contains entry %s with mismatched key", i, e.ID)
			}
		}
		duplicates += len(g.Entries)
		redundant += len(g.Entries) - 1
	}
	if r.TotalDuplicates != duplicates {
		return fmt.Errorf("total_duplicates (%d) does not match sum of group sizes (%d)",
			r.TotalDuplicates, duplicates)
	}
	if r.RedundantEntries != redundant {
		return fmt.Errorf("redundant_entries (%d) does not match sum of (size-1) (%d)",
			r.RedundantEntries, redundant)
	}
	if r.TotalDuplicates > r.TotalEntries {
		return fmt.Errorf("total_duplicates (%d) exceeds total_entries (%d)",
			r.TotalDuplicates, r.TotalEntries)
	}
	return nil
}

// FindDuplicates scans entries for duplicates and returns a report.
//
// Grouping is a single hash pass over the input: each entry is bucketed by
// its normalized key, so the scan is O(n) in the entry count with no
// pairwise comparisons. Entries whose normalized URL or username is empty
// are excluded from matching entirely. Groups that end up with fewer than
// two entries are dropped from the report.
//
// Within a group, entries keep their first-seen input order. Groups are
// sorted largest first, ties broken by key order, so the report is
// deterministic for a given input regardless of map iteration order.
func FindDuplicates(entries []*types.Entry) *DuplicateReport {
	buckets := make(map[NormalizedKey]*DuplicateGroup)
	for _, e := range entries {
		key := KeyFor(e)
		if !key.Complete() {
			continue
		}
		group, ok := buckets[key]
		if !ok {
			group = &DuplicateGroup{Key: key}
			buckets[key] = group
		}
		group.Entries = append(group.Entries, e)
	}

	report := &DuplicateReport{TotalEntries: len(entries)}
	for _, group := range buckets {
		if len(group.Entries) < 2 {
			continue
		}
		group.HasPasswordConflict = countDistinctPasswords(group.Entries) > 1
		report.Groups = append(report.Groups, group)
		report.TotalDuplicates += len(group.Entries)
		report.RedundantEntries += len(group.Entries) - 1
	}

	sort.Slice(report.Groups, func(i, j int) bool {
		a, b := report.Groups[i], report.Groups[j]
		if len(a.Entries) != len(b.Entries) {
			return len(a.Entries) > len(b.Entries)
		}
		if a.Key.URL != b.Key.URL {
			return a.Key.URL < b.Key.URL
		}
		return a.Key.Username < b.Key.Username
	})

	return report
}

// countDistinctPasswords counts distinct password values in a group.
// An empty password is a value like any other: two entries where one has a
// password and the other has none are in conflict.
func countDistinctPasswords(entries []*types.Entry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Password] = struct{}{}
	}
	return len(seen)
}

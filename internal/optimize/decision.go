package optimize

import (
	"fmt"

	"github.com/samarthya/keysweep/internal/dedup"
)

// DecisionAction categorizes what the operator chose for a group
type DecisionAction string

const (
	ActionPending DecisionAction = "pending"  // No decision yet
	ActionKeepOne DecisionAction = "keep_one" // Keep one entry, delete the rest
	ActionSkip    DecisionAction = "skip"     // Leave the whole group untouched
	ActionQuit    DecisionAction = "quit"     // Abandon the session
)

// IsValid checks if the decision action value is valid
func (a DecisionAction) IsValid() bool {
	switch a {
	case ActionPending, ActionKeepOne, ActionSkip, ActionQuit:
		return true
	}
	return false
}

// Decision represents the operator's choice for one duplicate group
type Decision struct {
	// Group is the duplicate group the decision applies to
	Group *dedup.DuplicateGroup `json:"-"`

	// GroupKey is the canonical "url|username" form of the group's key
	GroupKey string `json:"group_key"`

	// Action is what the operator chose
	Action DecisionAction `json:"action"`

	// KeepEntryID is the surviving entry.
	// Only set when Action is keep_one.
	KeepEntryID string `json:"keep_entry_id,omitempty"`
}

// Validate checks if the decision has valid values
func (d *Decision) Validate() error {
	if !d.Action.IsValid() {
		return fmt.Errorf("invalid action: %s", d.Action)
	}
	if d.Action == ActionKeepOne {
		if d.KeepEntryID == "" {
			return fmt.Errorf("keep_entry_id must be set when action is keep_one")
		}
		if d.Group != nil && !d.Group.Contains(d.KeepEntryID) {
			return fmt.Errorf("entry %s is not part of group %s", d.KeepEntryID, d.GroupKey)
		}
	} else if d.KeepEntryID != "" {
		return fmt.Errorf("keep_entry_id should not be set when action is %s", d.Action)
	}
	return nil
}

// DeletedIDs returns the IDs a keep_one decision removes, in the group's
// entry order. Empty for any other action.
func (d *Decision) DeletedIDs() []string {
	if d.Action != ActionKeepOne || d.Group == nil {
		return nil
	}
	var ids []string
	for _, e := range d.Group.Entries {
		if e.ID != d.KeepEntryID {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

package optimize

import (
	"testing"

	"github.com/samarthya/keysweep/internal/dedup"
	"github.com/samarthya/keysweep/internal/types"
)

func twoEntryGroup() *dedup.DuplicateGroup {
	return &dedup.DuplicateGroup{
		Key: dedup.NormalizedKey{URL: "example.com", Username: "alice"},
		Entries: []*types.Entry{
			{ID: "e1", Title: "Example"},
			{ID: "e2", Title: "Example copy"},
		},
	}
}

func TestDecisionValidate(t *testing.T) {
	group := twoEntryGroup()

	tests := []struct {
		name        string
		decision    *Decision
		expectError bool
	}{
		{
			name: "valid keep",
			decision: &Decision{
				Group: group, GroupKey: "example.com|alice",
				Action: ActionKeepOne, KeepEntryID: "e1",
			},
		},
		{
			name: "valid skip",
			decision: &Decision{
				Group: group, GroupKey: "example.com|alice",
				Action: ActionSkip,
			},
		},
		{
			name: "valid quit",
			decision: &Decision{Action: ActionQuit},
		},
		{
			name:        "invalid action",
			decision:    &Decision{Action: DecisionAction("delete_all")},
			expectError: true,
		},
		{
			name: "keep without entry id",
			decision: &Decision{
				Group: group, GroupKey: "example.com|alice",
				Action: ActionKeepOne,
			},
			expectError: true,
		},
		{
			name: "keep entry outside group",
			decision: &Decision{
				Group: group, GroupKey: "example.com|alice",
				Action: ActionKeepOne, KeepEntryID: "stranger",
			},
			expectError: true,
		},
		{
			name: "skip with entry id",
			decision: &Decision{
				Group: group, GroupKey: "example.com|alice",
				Action: ActionSkip, KeepEntryID: "e1",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decision.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecisionDeletedIDs(t *testing.T) {
	group := &dedup.DuplicateGroup{
		Key: dedup.NormalizedKey{URL: "example.com", Username: "alice"},
		Entries: []*types.Entry{
			{ID: "e1"}, {ID: "e2"}, {ID: "e3"},
		},
	}

	keep := &Decision{Group: group, Action: ActionKeepOne, KeepEntryID: "e2"}
	got := keep.DeletedIDs()
	if len(got) != 2 || got[0] != "e1" || got[1] != "e3" {
		t.Errorf("DeletedIDs() = %v, want [e1 e3]", got)
	}

	skip := &Decision{Group: group, Action: ActionSkip}
	if ids := skip.DeletedIDs(); ids != nil {
		t.Errorf("skip decision should delete nothing, got %v", ids)
	}
}

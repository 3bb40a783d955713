package optimize

import (
	"fmt"
	"io"

	"github.com/samarthya/keysweep/internal/dedup"
)

// DecisionProvider supplies one decision per presented group. Implementations
// range from fully interactive prompts to scripted answers for tests.
type DecisionProvider interface {
	// Decide returns the decision for the given group. index is
	// zero-based; total is the number of groups in the report. Only the
	// Action and KeepEntryID fields of the returned decision are used.
	Decide(group *dedup.DuplicateGroup, index, total int) (*Decision, error)
}

// ScriptedProvider replays a fixed list of decisions in order. Once the
// script is exhausted it returns io.EOF, which ends the session as a quit.
type ScriptedProvider struct {
	Decisions []*Decision
	next      int
}

// Decide returns the next scripted decision
func (p *ScriptedProvider) Decide(group *dedup.DuplicateGroup, index, total int) (*Decision, error) {
	if p.next >= len(p.Decisions) {
		return nil, fmt.Errorf("script exhausted after %d decision(s): %w", p.next, io.EOF)
	}
	decision := p.Decisions[p.next]
	p.next++
	return decision, nil
}

// KeepNewestProvider keeps the most recently modified entry of every group
// without asking. This is the engine behind non-interactive optimize runs.
type KeepNewestProvider struct{}

// Decide keeps the newest entry of the group
func (KeepNewestProvider) Decide(group *dedup.DuplicateGroup, index, total int) (*Decision, error) {
	newest := group.Newest()
	if newest == nil {
		return nil, fmt.Errorf("group %s has no entries", group.Key)
	}
	return &Decision{Action: ActionKeepOne, KeepEntryID: newest.ID}, nil
}

package optimize

// SessionState represents the state of an optimization session
type SessionState string

const (
	StateCreated          SessionState = "created"           // Session built, nothing started
	StateBackedUp         SessionState = "backed_up"         // Safety backup written
	StatePresenting       SessionState = "presenting"        // A duplicate group is being shown
	StateAwaitingDecision SessionState = "awaiting_decision" // Waiting for keep/skip/quit
	StateAllDecided       SessionState = "all_decided"       // Every group decided, ready to commit
	StateCommitted        SessionState = "committed"         // Deletions applied and saved (terminal)
	StateDryRunComplete   SessionState = "dry_run_complete"  // Dry run finished, store untouched (terminal)
	StateAborted          SessionState = "aborted"           // Quit or failure (terminal)
)

// IsValid checks if the session state value is valid
func (s SessionState) IsValid() bool {
	switch s {
	case StateCreated, StateBackedUp, StatePresenting, StateAwaitingDecision,
		StateAllDecided, StateCommitted, StateDryRunComplete, StateAborted:
		return true
	}
	return false
}

// IsTerminal reports whether the session can make no further progress
func (s SessionState) IsTerminal() bool {
	switch s {
	case StateCommitted, StateDryRunComplete, StateAborted:
		return true
	}
	return false
}

// ValidTransitions defines the valid state transitions for the session
// state machine.
//
// State Machine Diagram:
//
//	created → backed_up → presenting → awaiting_decision → all_decided → committed
//	    ↓         ↓           ↓               ↓ ↑                ↓
//	 aborted   aborted     aborted      (next group)      dry_run_complete
//	                                        ↓                    ↓
//	                                     aborted              aborted
//
// Valid transitions:
//   - created → backed_up (safety backup taken)
//   - created → presenting (dry run, backup skipped)
//   - created → all_decided (dry run over an empty report)
//   - backed_up → presenting (first group shown)
//   - backed_up → all_decided (empty report, nothing to decide)
//   - presenting → awaiting_decision (group handed to the operator)
//   - awaiting_decision → presenting (decision recorded, more groups remain)
//   - awaiting_decision → all_decided (last group decided)
//   - all_decided → committed (deletions applied and saved)
//   - all_decided → dry_run_complete (dry run, store untouched)
//   - any non-terminal state → aborted (quit or failure)
func (s SessionState) ValidTransitions() []SessionState {
	switch s {
	case StateCreated:
		return []SessionState{StateBackedUp, StatePresenting, StateAllDecided, StateAborted}
	case StateBackedUp:
		return []SessionState{StatePresenting, StateAllDecided, StateAborted}
	case StatePresenting:
		return []SessionState{StateAwaitingDecision, StateAborted}
	case StateAwaitingDecision:
		return []SessionState{StatePresenting, StateAllDecided, StateAborted}
	case StateAllDecided:
		return []SessionState{StateCommitted, StateDryRunComplete, StateAborted}
	case StateCommitted:
		return []SessionState{} // Terminal state
	case StateDryRunComplete:
		return []SessionState{} // Terminal state
	case StateAborted:
		return []SessionState{} // Terminal state
	default:
		return []SessionState{}
	}
}

// CanTransitionTo checks if a transition from this state to the target
// state is valid
func (s SessionState) CanTransitionTo(target SessionState) bool {
	for _, valid := range s.ValidTransitions() {
		if valid == target {
			return true
		}
	}
	return false
}

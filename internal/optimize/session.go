package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samarthya/keysweep/internal/audit"
	"github.com/samarthya/keysweep/internal/dedup"
	"github.com/samarthya/keysweep/internal/vault"
)

// Options configures an optimization session
type Options struct {
	// BackupPath overrides the default timestamped backup destination
	// next to the database file
	BackupPath string

	// AuditPath overrides the default timestamped audit log destination
	// next to the database file
	AuditPath string

	// Clock overrides time.Now, for tests
	Clock func() time.Time
}

// Session owns one optimization run over a duplicate report. It walks the
// operator through every group, collects keep/skip decisions, and applies
// them in a single commit guarded by a backup taken up front.
//
// A session is single-use: once it reaches a terminal state it can only be
// inspected, never restarted.
type Session struct {
	report *dedup.DuplicateReport
	store  vault.Store

	state      SessionState
	dryRun     bool
	current    int
	decisions  []*Decision
	log        *audit.Log
	backupPath string
	now        func() time.Time
}

// NewSession creates a session over a validated report
func NewSession(report *dedup.DuplicateReport, store vault.Store, opts Options) (*Session, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	// Backup and audit paths share one timestamp so the pair from a single
	// session is recognizable on disk.
	stamp := now()
	backupPath := opts.BackupPath
	if backupPath == "" {
		backupPath = vault.BackupPath(store.Path(), stamp)
	}
	auditPath := opts.AuditPath
	if auditPath == "" {
		auditPath = vault.AuditPath(store.Path(), stamp)
	}

	return &Session{
		report:     report,
		store:      store,
		state:      StateCreated,
		log:        audit.New(auditPath),
		backupPath: backupPath,
		now:        now,
	}, nil
}

// State returns the current session state
func (s *Session) State() SessionState {
	return s.state
}

// DryRun reports whether the session was started in dry-run mode
func (s *Session) DryRun() bool {
	return s.dryRun
}

// Report returns the duplicate report the session operates on
func (s *Session) Report() *dedup.DuplicateReport {
	return s.report
}

// BackupPath returns where the safety backup is (or would be) written
func (s *Session) BackupPath() string {
	return s.backupPath
}

// AuditLogPath returns where committed decisions are recorded
func (s *Session) AuditLogPath() string {
	return s.log.Path()
}

// Decisions returns a copy of the decisions recorded so far
func (s *Session) Decisions() []*Decision {
	out := make([]*Decision, len(s.decisions))
	copy(out, s.decisions)
	return out
}

// transition moves the state machine, rejecting invalid jumps
func (s *Session) transition(target SessionState) error {
	if !s.state.CanTransitionTo(target) {
		return fmt.Errorf("invalid state transition: %s -> %s", s.state, target)
	}
	s.state = target
	return nil
}

// Start begins the session. Unless dryRun is set, a safety backup is taken
// first; if the backup fails the session aborts before presenting anything,
// since without it no deletion can be undone.
func (s *Session) Start(ctx context.Context, dryRun bool) error {
	if s.state != StateCreated {
		return fmt.Errorf("session already started (state: %s)", s.state)
	}
	s.dryRun = dryRun

	if !dryRun {
		if err := s.store.CreateBackup(s.backupPath); err != nil {
			s.state = StateAborted
			return &BackupError{Destination: s.backupPath, Err: err}
		}
		if err := s.transition(StateBackedUp); err != nil {
			return err
		}
	}

	if len(s.report.Groups) == 0 {
		return s.transition(StateAllDecided)
	}
	s.current = 0
	return s.transition(StatePresenting)
}

// Current returns the group awaiting a decision and its index. Calling it
// moves a freshly presented group into awaiting_decision. Returns (nil, -1)
// when no group is pending.
func (s *Session) Current() (*dedup.DuplicateGroup, int) {
	switch s.state {
	case StatePresenting:
		_ = s.transition(StateAwaitingDecision)
		return s.report.Groups[s.current], s.current
	case StateAwaitingDecision:
		return s.report.Groups[s.current], s.current
	default:
		return nil, -1
	}
}

// Keep records a keep-one decision for the current group: the named entry
// survives, every other entry in the group is staged for deletion. An
// entry ID outside the group is rejected with ErrInvalidDecision and the
// session stays on the same group.
func (s *Session) Keep(entryID string) error {
	if err := s.requireAwaiting(); err != nil {
		return err
	}
	group := s.report.Groups[s.current]
	decision := &Decision{
		Group:       group,
		GroupKey:    group.Key.String(),
		Action:      ActionKeepOne,
		KeepEntryID: entryID,
	}
	if err := decision.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}
	s.decisions = append(s.decisions, decision)
	return s.advance()
}

// Skip records a skip decision: the current group is left untouched
func (s *Session) Skip() error {
	if err := s.requireAwaiting(); err != nil {
		return err
	}
	group := s.report.Groups[s.current]
	s.decisions = append(s.decisions, &Decision{
		Group:    group,
		GroupKey: group.Key.String(),
		Action:   ActionSkip,
	})
	return s.advance()
}

// Quit abandons the session. Nothing staged is ever applied: no deletions,
// no audit records, no save. Quitting an already-aborted session is a
// no-op.
func (s *Session) Quit() error {
	if s.state.IsTerminal() {
		if s.state == StateAborted {
			return nil
		}
		return fmt.Errorf("%w: cannot quit after %s", ErrSessionTerminal, s.state)
	}
	return s.transition(StateAborted)
}

func (s *Session) requireAwaiting() error {
	if s.state == StatePresenting {
		_ = s.transition(StateAwaitingDecision)
	}
	if s.state != StateAwaitingDecision {
		return fmt.Errorf("no group awaiting a decision (state: %s)", s.state)
	}
	return nil
}

func (s *Session) advance() error {
	s.current++
	if s.current >= len(s.report.Groups) {
		return s.transition(StateAllDecided)
	}
	return s.transition(StatePresenting)
}

// Commit applies every keep-one decision. For each group the non-kept
// entries are deleted in the group's entry order, then one audit record is
// appended; after all groups, the store is saved. In dry-run mode the
// store is never touched and the session ends in dry_run_complete.
//
// A failure partway through stops the loop: deletions already applied
// stand (and are saved), and the caller gets a *PartialCommitError naming
// the committed groups and the one that failed.
//
// Commit is idempotent once the session has committed or completed a dry
// run: repeated calls succeed without touching the store again.
func (s *Session) Commit(ctx context.Context) error {
	switch s.state {
	case StateCommitted, StateDryRunComplete:
		return nil
	case StateAborted:
		return fmt.Errorf("%w: cannot commit an aborted session", ErrSessionTerminal)
	case StateAllDecided:
		// proceed
	default:
		return fmt.Errorf("cannot commit before all groups are decided (state: %s)", s.state)
	}

	if s.dryRun {
		return s.transition(StateDryRunComplete)
	}

	var committed []*Decision
	for _, decision := range s.decisions {
		if decision.Action != ActionKeepOne {
			continue
		}
		if err := s.commitGroup(ctx, decision); err != nil {
			s.state = StateAborted
			perr := &PartialCommitError{Committed: committed, Failed: decision, Err: err}
			// Already-applied deletions stand: persist them so the audit
			// log and the store agree.
			if saveErr := s.store.Save(); saveErr != nil {
				return fmt.Errorf("%v; saving already-applied deletions also failed: %w", perr, saveErr)
			}
			return perr
		}
		committed = append(committed, decision)
	}

	if err := s.store.Save(); err != nil {
		s.state = StateAborted
		return &SaveError{Err: err}
	}
	return s.transition(StateCommitted)
}

// commitGroup deletes the non-kept entries of one group and appends its
// audit record. The record is written only after every deletion in the
// group succeeded.
func (s *Session) commitGroup(ctx context.Context, decision *Decision) error {
	for _, entry := range decision.Group.Entries {
		if entry.ID == decision.KeepEntryID {
			continue
		}
		// Always through the recycle bin: optimization never hard-deletes,
		// so committed removals stay recoverable even without the backup.
		if err := s.store.DeleteEntry(ctx, entry.ID, true); err != nil {
			return &DeleteError{GroupKey: decision.GroupKey, EntryID: entry.ID, Err: err}
		}
	}

	record := &audit.Record{
		Timestamp:       s.now(),
		GroupKey:        decision.GroupKey,
		KeptEntryID:     decision.KeepEntryID,
		DeletedEntryIDs: decision.DeletedIDs(),
	}
	if err := s.log.Append(record); err != nil {
		return fmt.Errorf("deletions for group %s applied but audit append failed: %w",
			decision.GroupKey, err)
	}
	return nil
}

// Run drives the decision loop with the given provider until every group
// is decided, the provider quits, or the context is canceled. Start must
// have been called first. An invalid keep decision does not end the loop:
// the provider is simply asked again for the same group.
func (s *Session) Run(ctx context.Context, provider DecisionProvider) error {
	if s.state == StateCreated {
		return fmt.Errorf("session not started")
	}
	total := len(s.report.Groups)

	for s.state == StatePresenting || s.state == StateAwaitingDecision {
		if err := ctx.Err(); err != nil {
			_ = s.Quit()
			return err
		}

		group, index := s.Current()
		decision, err := provider.Decide(group, index, total)
		if err != nil {
			_ = s.Quit()
			return fmt.Errorf("decision provider failed: %w", err)
		}

		switch decision.Action {
		case ActionKeepOne:
			if err := s.Keep(decision.KeepEntryID); err != nil {
				if errors.Is(err, ErrInvalidDecision) {
					continue
				}
				return err
			}
		case ActionSkip:
			if err := s.Skip(); err != nil {
				return err
			}
		case ActionQuit:
			return s.Quit()
		default:
			_ = s.Quit()
			return fmt.Errorf("provider returned unsupported action %q", decision.Action)
		}
	}
	return nil
}

package optimize

import (
	"errors"
	"fmt"
)

// ErrInvalidDecision is returned when a keep decision names an entry that
// is not part of the group being decided. The session stays in
// awaiting_decision so the operator can try again.
var ErrInvalidDecision = errors.New("invalid decision")

// ErrSessionTerminal is returned when an operation is attempted on a
// session that has already committed, completed a dry run, or aborted.
var ErrSessionTerminal = errors.New("session is in a terminal state")

// BackupError reports a failed safety backup. The session aborts before
// presenting anything: no backup means no deletions.
type BackupError struct {
	Destination string
	Err         error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup to %s failed: %v", e.Destination, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// DeleteError reports a failed store deletion during commit
type DeleteError struct {
	GroupKey string
	EntryID  string
	Err      error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete entry %s in group %s: %v", e.EntryID, e.GroupKey, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// SaveError reports a failed store save at the end of commit. The safety
// backup taken at session start is the recovery path.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save store: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// PartialCommitError reports a commit that failed partway through.
// Deletions applied for the committed groups stand (and are saved); the
// failed group and everything after it are left untouched.
type PartialCommitError struct {
	// Committed holds the decisions whose deletions were fully applied
	// and audit-logged before the failure
	Committed []*Decision

	// Failed is the decision whose group could not be committed
	Failed *Decision

	// Err is the underlying failure, typically a *DeleteError
	Err error
}

func (e *PartialCommitError) Error() string {
	failedKey := "?"
	if e.Failed != nil {
		failedKey = e.Failed.GroupKey
	}
	return fmt.Sprintf("commit applied %d group(s) before failing on group %s: %v",
		len(e.Committed), failedKey, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }

// Package optimize drives interactive cleanup of duplicate vault entries.
//
// # Overview
//
// A Session takes a duplicate report and a vault store and walks the
// operator through every group: for each group the operator keeps exactly
// one entry, skips the group, or quits the whole session. Decisions are
// staged in memory and nothing touches the store until Commit.
//
// # Lifecycle
//
// Sessions move through a strict state machine (see SessionState). The
// safety rules it enforces:
//
//   - A backup is taken before the first group is ever presented, so every
//     later deletion can be undone by restoring the backup. If the backup
//     fails the session aborts without presenting anything.
//   - Dry-run sessions skip the backup and never call into the store at
//     commit time.
//   - Quit discards all staged decisions; only Commit applies them.
//   - Commit deletes the non-kept entries group by group, appending one
//     audit record per applied group, then saves the store once at the
//     end. A failure partway through leaves the already-applied groups
//     deleted (and saved) and reports a PartialCommitError.
//
// # Providers
//
// The decision source is abstracted behind DecisionProvider:
// InteractiveProvider prompts over readline, KeepNewestProvider keeps the
// most recently modified entry without asking, and ScriptedProvider replays
// a fixed list for tests.
package optimize

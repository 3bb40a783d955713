package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/dedup"
	"github.com/samarthya/keysweep/internal/optimize"
	"github.com/samarthya/keysweep/internal/vault"
)

var (
	optimizeDryRun bool
	optimizeAuto   bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <database>",
	Short: "Interactively remove duplicate entries",
	Long: `Walk through every duplicate group and decide, per group, which entry
to keep. The other entries in the group are deleted when you commit.

Before the first group is shown, a timestamped backup of the database is
written next to it; if the backup fails, nothing is ever presented.
Deletions go through the recycle bin (see KEYSWEEP_USE_RECYCLE_BIN) and
every committed group is appended to an audit log beside the database.

For each group you can keep a specific entry, keep the newest, skip the
group, or quit. Quitting discards all decisions: nothing is deleted.

With --dry-run, no backup is taken and the store is never touched; the
session only shows what would happen.

Exit status is 0 when the session commits or completes a dry run, and
non-zero when it aborts or the commit fails partway.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, args)
		defer store.Close()

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		// One session owns the store for its whole duration
		lockPath, err := vault.AcquireLock(store.Path(), "optimize", Version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := vault.ReleaseLock(lockPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to release lock: %v\n", err)
			}
		}()

		entries, err := store.ListEntries(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list entries: %v\n", err)
			os.Exit(1)
		}
		report := dedup.FindDuplicates(entries)

		if optimizeDryRun {
			fmt.Printf("%s\n", yellow("DRY RUN — no backup is taken and nothing will be deleted"))
		}

		now := time.Now()
		session, err := optimize.NewSession(report, store, optimize.Options{
			BackupPath: cfg.BackupPathFor(store.Path(), now),
			AuditPath:  cfg.AuditPathFor(store.Path(), now),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := session.Start(ctx, optimizeDryRun); err != nil {
			var backupErr *optimize.BackupError
			if errors.As(err, &backupErr) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Nothing was presented and nothing was deleted.\n")
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !optimizeDryRun {
			fmt.Printf("%s Backup written to %s\n", green("✓"), session.BackupPath())
		}

		if !report.HasDuplicates() {
			fmt.Printf("No duplicates found (%d entries scanned). Nothing to do.\n", report.TotalEntries)
			if err := session.Commit(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("Scanned %d entries: %d duplicate group(s)\n", report.TotalEntries, len(report.Groups))

		provider, cleanup, err := newProvider()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		if err := session.Run(ctx, provider); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if session.State() == optimize.StateAborted {
			fmt.Printf("\n%s Session aborted. No changes were applied.\n", yellow("✗"))
			os.Exit(1)
		}

		if err := session.Commit(ctx); err != nil {
			var partial *optimize.PartialCommitError
			if errors.As(err, &partial) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "\nDeletions for %d group(s) were applied and saved before the failure.\n",
					len(partial.Committed))
				fmt.Fprintf(os.Stderr, "Audit log: %s\n", session.AuditLogPath())
				fmt.Fprintf(os.Stderr, "Backup:    %s\n", session.BackupPath())
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		kept, deleted := 0, 0
		for _, d := range session.Decisions() {
			if d.Action == optimize.ActionKeepOne {
				kept++
				deleted += len(d.DeletedIDs())
			}
		}

		if session.State() == optimize.StateDryRunComplete {
			fmt.Printf("\n%s Dry run complete: %d group(s) decided, %d entries would be removed.\n",
				green("✓"), kept, deleted)
			return
		}

		if deleted == 0 {
			fmt.Printf("\n%s Committed: every group was skipped, nothing removed.\n", green("✓"))
			return
		}
		fmt.Printf("\n%s Removed %d redundant entries across %d group(s).\n", green("✓"), deleted, kept)
		fmt.Printf("  %s\n", gray("Deleted entries are in the recycle bin ('keysweep restore --list')."))
		fmt.Printf("  Audit log: %s\n", session.AuditLogPath())
	},
}

// newProvider picks the decision source: interactive prompts by default,
// keep-newest when auto-approval is on
func newProvider() (optimize.DecisionProvider, func(), error) {
	if optimizeAuto || cfg.AutoApprove {
		fmt.Println("Auto-approve: keeping the most recently modified entry of each group")
		return optimize.KeepNewestProvider{}, func() {}, nil
	}
	interactive, err := optimize.NewInteractiveProvider()
	if err != nil {
		return nil, nil, err
	}
	return interactive, func() { _ = interactive.Close() }, nil
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().BoolVar(&optimizeDryRun, "dry-run", false,
		"Show what would happen without backing up or deleting anything")
	optimizeCmd.Flags().BoolVar(&optimizeAuto, "auto", false,
		"Keep the newest entry of every group without prompting")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/samarthya/keysweep/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <database>",
	Short: "Rescan for duplicates whenever the vault changes",
	Long: `Scan the vault once, then keep watching the database file and rerun the
duplicate scan after every change. Useful while another tool or a sync
client is writing to the vault.

Bursts of writes are coalesced (see KEYSWEEP_WATCH_DEBOUNCE_MS) and
rescans are capped at one per second. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, _ := openStore(ctx, args)
		defer store.Close()

		watcher, err := watch.New(&watch.Config{
			Store:    store,
			Debounce: cfg.WatchDebounce(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", store.Path())

		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			return watcher.Run(groupCtx)
		})

		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nStopped after %d scan(s).\n", watcher.Scans())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

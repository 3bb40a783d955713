package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/types"
)

var listQuery string

var listCmd = &cobra.Command{
	Use:   "list <database>",
	Short: "List entries (never shows passwords)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, args)
		defer store.Close()

		var entries []*types.Entry
		var err error
		if listQuery != "" {
			entries, err = store.SearchEntries(ctx, listQuery)
		} else {
			entries, err = store.ListEntries(ctx)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list entries: %v\n", err)
			os.Exit(1)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s\n", cyan(fmt.Sprintf("%-38s %-24s %-20s %s", "ID", "TITLE", "USERNAME", "GROUP")))
		for _, e := range entries {
			group := e.GroupPath
			if group == "" {
				group = gray("-")
			}
			fmt.Printf("%-38s %-24s %-20s %s\n", e.ID, truncate(e.Title, 24), truncate(e.Username, 20), group)
		}
		fmt.Printf("\n%d entries\n", len(entries))
	},
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listQuery, "search", "", "Filter by title, username, URL, or group")
}

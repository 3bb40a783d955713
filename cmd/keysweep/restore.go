package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var restoreList bool

var restoreCmd = &cobra.Command{
	Use:   "restore <database> [id]",
	Short: "Restore an entry from the recycle bin",
	Long: `Bring a recycled entry back into the vault with its original content
and timestamps. Use --list to see what the recycle bin holds.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, rest := openStore(ctx, args)
		defer store.Close()

		if restoreList || len(rest) == 0 {
			binned, err := store.ListRecycleBin(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to list recycle bin: %v\n", err)
				os.Exit(1)
			}
			if len(binned) == 0 {
				fmt.Println("Recycle bin is empty.")
				return
			}

			cyan := color.New(color.FgCyan).SprintFunc()
			fmt.Printf("%s\n", cyan(fmt.Sprintf("%-38s %-24s %-20s %s", "ID", "TITLE", "USERNAME", "GROUP")))
			for _, e := range binned {
				fmt.Printf("%-38s %-24s %-20s %s\n",
					e.ID, truncate(e.Title, 24), truncate(e.Username, 20), e.GroupPath)
			}
			fmt.Printf("\n%d entries in the recycle bin\n", len(binned))
			if len(rest) == 0 && !restoreList {
				fmt.Println("Pass an entry ID to restore it.")
			}
			return
		}

		id := rest[0]
		if err := store.RestoreEntry(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to restore entry: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Restored entry %s\n", green("✓"), id)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreList, "list", false, "List recycle bin contents without restoring")
}

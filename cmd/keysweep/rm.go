package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	rmPermanent bool
	rmForce     bool
)

var rmCmd = &cobra.Command{
	Use:   "rm <database> <id-or-title>",
	Short: "Delete an entry",
	Long: `Delete an entry by its ID or exact title. The entry is moved to the
recycle bin and can be brought back with 'keysweep restore'; pass
--permanent to erase it for good.

Deletion asks for confirmation unless --force is given.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, rest := openStore(ctx, args)
		defer store.Close()

		if len(rest) == 0 {
			fmt.Fprintf(os.Stderr, "Error: entry ID or title required\n")
			os.Exit(1)
		}

		// KEYSWEEP_USE_RECYCLE_BIN=false flips the default to permanent
		permanent := rmPermanent || !cfg.UseRecycleBin

		entry, err := findEntry(ctx, store, rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		red := color.New(color.FgRed).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		if !rmForce {
			verb := "Move"
			target := "to the recycle bin"
			if permanent {
				verb = red("Permanently delete")
				target = "(no recycle bin)"
			}
			fmt.Printf("%s %q (user=%s, id=%s) %s? [y/N] ", verb, entry.Title, entry.Username, entry.ID, target)
			response, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to read response: %v\n", err)
				os.Exit(1)
			}
			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return
			}
		}

		if err := store.DeleteEntry(ctx, entry.ID, !permanent); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to delete entry: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save: %v\n", err)
			os.Exit(1)
		}

		if permanent {
			fmt.Printf("%s Permanently deleted %s\n", green("✓"), entry.DisplayName())
		} else {
			fmt.Printf("%s Moved %s to the recycle bin\n", green("✓"), entry.DisplayName())
		}
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolVar(&rmPermanent, "permanent", false, "Erase the entry instead of recycling it")
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Skip the confirmation prompt")
}

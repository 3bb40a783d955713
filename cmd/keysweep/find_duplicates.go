package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/dedup"
)

var (
	findJSON   bool
	findOutput string
)

var findDuplicatesCmd = &cobra.Command{
	Use:   "find-duplicates <database>",
	Short: "Scan the vault for duplicate entries",
	Long: `Scan every entry and group together those whose URL and username
normalize to the same key. Scheme (http/https), a leading www., a
trailing slash, and letter case are all ignored; entries missing either
the URL or the username never count as duplicates.

The report never contains passwords. Groups where the duplicates carry
different passwords are flagged so you can review them before deleting
anything.

Finding duplicates is informational: the command exits 0 whether or not
any were found. Use 'keysweep optimize' to actually remove them.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, args)
		defer store.Close()

		entries, err := store.ListEntries(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list entries: %v\n", err)
			os.Exit(1)
		}

		report := dedup.FindDuplicates(entries)

		var rendered []byte
		if findJSON {
			data, err := json.MarshalIndent(dedup.RenderJSON(report), "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to encode report: %v\n", err)
				os.Exit(1)
			}
			rendered = append(data, '\n')
		} else {
			rendered = []byte(dedup.RenderText(report))
		}

		if findOutput != "" {
			if err := os.WriteFile(findOutput, rendered, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to write report to %s: %v\n", findOutput, err)
				os.Exit(1)
			}
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Report written to %s\n", green("✓"), findOutput)
			return
		}

		fmt.Print(string(rendered))

		if !findJSON && report.HasDuplicates() {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println()
			fmt.Printf("%s\n", gray("Run 'keysweep optimize' to remove redundant entries safely."))
		}
	},
}

func init() {
	rootCmd.AddCommand(findDuplicatesCmd)
	findDuplicatesCmd.Flags().BoolVar(&findJSON, "json", false, "Emit the report as JSON")
	findDuplicatesCmd.Flags().StringVar(&findOutput, "output", "", "Write the report to a file instead of stdout")
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/transfer"
)

var importCmd = &cobra.Command{
	Use:   "import <database> <file.csv>",
	Short: "Import entries from a CSV file",
	Long: `Import entries from a CSV file. The first row must be a header with at
least a title column; username, password, url, notes, tags, and group
columns are recognized in any order.

Rows that would duplicate an existing entry — same URL and username
after the normalization the duplicate scanner uses — are skipped, so
importing the same file twice never bloats the vault.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, rest := openStore(ctx, args)
		defer store.Close()

		if len(rest) == 0 {
			fmt.Fprintf(os.Stderr, "Error: import file required\n")
			os.Exit(1)
		}

		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open %s: %v\n", rest[0], err)
			os.Exit(1)
		}
		defer f.Close()

		result, err := transfer.ImportCSV(ctx, f, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: import failed: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("%s Imported %d entries\n", green("✓"), result.Imported)
		if len(result.Skipped) > 0 {
			fmt.Printf("%s Skipped %d duplicate(s):\n", yellow("⚠"), len(result.Skipped))
			for _, title := range result.Skipped {
				fmt.Printf("    %s\n", title)
			}
		}
		if result.Failed > 0 {
			fmt.Printf("%s %d row(s) failed:\n", red("✗"), result.Failed)
			for _, msg := range result.Errors {
				fmt.Printf("    %s\n", msg)
			}
			os.Exit(1)
		}
	},
}

var (
	exportFormat    string
	exportPasswords bool
)

var exportCmd = &cobra.Command{
	Use:   "export <database> <file>",
	Short: "Export entries to CSV, JSON, or YAML",
	Long: `Export every entry to a file. The format is inferred from the file
extension (.csv, .json, .yaml/.yml) unless --format is given.

Passwords are left out unless --include-passwords is set: the export
file is plain text, so only include them when you know where the file
is going.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, rest := openStore(ctx, args)
		defer store.Close()

		if len(rest) == 0 {
			fmt.Fprintf(os.Stderr, "Error: export file required\n")
			os.Exit(1)
		}
		dest := rest[0]

		var format transfer.Format
		var err error
		if exportFormat != "" {
			format, err = transfer.ParseFormat(exportFormat)
		} else {
			format, err = transfer.FormatFromPath(dest)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		entries, err := store.ListEntries(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list entries: %v\n", err)
			os.Exit(1)
		}

		f, err := os.Create(dest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create %s: %v\n", dest, err)
			os.Exit(1)
		}
		defer f.Close()

		opts := transfer.ExportOptions{Format: format, IncludePasswords: exportPasswords}
		if err := transfer.Export(f, entries, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: export failed: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Exported %d entries to %s (%s)\n", green("✓"), len(entries), dest, format)
		if exportPasswords {
			fmt.Printf("%s The export contains passwords in clear text.\n", yellow("⚠"))
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv, json, or yaml (default: by extension)")
	exportCmd.Flags().BoolVar(&exportPasswords, "include-passwords", false, "Write passwords in clear text")
}

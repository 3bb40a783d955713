package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/totp"
	"github.com/samarthya/keysweep/internal/types"
	"github.com/samarthya/keysweep/internal/vault"
)

var showPassword bool

var showCmd = &cobra.Command{
	Use:   "show <database> <id-or-title>",
	Short: "Show one entry",
	Long: `Show an entry by its ID or, failing that, by exact title match. The
password stays hidden unless --password is given. Entries carrying a
TOTP secret also show the current code.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, rest := openStore(ctx, args)
		defer store.Close()

		if len(rest) == 0 {
			fmt.Fprintf(os.Stderr, "Error: entry ID or title required\n")
			os.Exit(1)
		}

		entry, err := findEntry(ctx, store, rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n", cyan(entry.Title))
		fmt.Printf("  ID:       %s\n", entry.ID)
		if entry.Username != "" {
			fmt.Printf("  Username: %s\n", entry.Username)
		}
		if showPassword {
			fmt.Printf("  Password: %s\n", entry.Password)
		} else if entry.Password != "" {
			fmt.Printf("  Password: %s\n", gray("******** (use --password to reveal)"))
		}
		if entry.URL != "" {
			fmt.Printf("  URL:      %s\n", entry.URL)
		}
		if entry.GroupPath != "" {
			fmt.Printf("  Group:    %s\n", entry.GroupPath)
		}
		if len(entry.Tags) > 0 {
			fmt.Printf("  Tags:     %s\n", strings.Join(entry.Tags, ", "))
		}
		if entry.Notes != "" {
			fmt.Printf("  Notes:    %s\n", entry.Notes)
		}
		fmt.Printf("  Modified: %s\n", entry.ModifiedAt.Local().Format("2006-01-02 15:04:05"))

		if entry.OTPSecret != "" {
			code, err := totp.Code(entry.OTPSecret)
			if err != nil {
				fmt.Printf("  TOTP:     %s\n", gray(fmt.Sprintf("invalid secret (%v)", err)))
			} else {
				fmt.Printf("  TOTP:     %s (%ds left)\n", code, int(totp.Remaining(time.Now()).Seconds()))
			}
		}
		fmt.Println()
	},
}

// findEntry resolves an entry by ID first, then by exact title
func findEntry(ctx context.Context, store vault.Store, idOrTitle string) (*types.Entry, error) {
	if entry, err := store.GetEntry(ctx, idOrTitle); err == nil {
		return entry, nil
	}

	entries, err := store.SearchEntries(ctx, idOrTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	var matches []*types.Entry
	for _, e := range entries {
		if strings.EqualFold(e.Title, idOrTitle) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no entry with ID or title %q", idOrTitle)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, fmt.Errorf("title %q is ambiguous, use an ID: %s", idOrTitle, strings.Join(ids, ", "))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showPassword, "password", false, "Reveal the password")
}

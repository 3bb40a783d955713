package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/generator"
	"github.com/samarthya/keysweep/internal/types"
)

var (
	addTitle    string
	addUsername string
	addPassword string
	addURL      string
	addNotes    string
	addTags     []string
	addGroup    string
	addGenerate bool
)

var addCmd = &cobra.Command{
	Use:   "add <database>",
	Short: "Add an entry to the vault",
	Long: `Add a password entry. With --generate, a random 16-character password
is created for you (and printed once, so you can store it elsewhere).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, args)
		defer store.Close()

		password := addPassword
		generated := false
		if password == "" && addGenerate {
			var err error
			password, err = generator.Generate(generator.DefaultOptions())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to generate password: %v\n", err)
				os.Exit(1)
			}
			generated = true
		}

		entry := &types.Entry{
			Title:     addTitle,
			Username:  addUsername,
			Password:  password,
			URL:       addURL,
			Notes:     addNotes,
			Tags:      addTags,
			GroupPath: addGroup,
		}
		if err := store.AddEntry(ctx, entry); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to add entry: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added %s (id: %s)\n", green("✓"), entry.DisplayName(), entry.ID)
		if generated {
			fmt.Printf("  Generated password: %s\n", password)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Entry title (required)")
	addCmd.Flags().StringVar(&addUsername, "username", "", "Username or account")
	addCmd.Flags().StringVar(&addPassword, "password", "", "Password (omit with --generate)")
	addCmd.Flags().StringVar(&addURL, "url", "", "Website URL")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Comma-separated tags")
	addCmd.Flags().StringVar(&addGroup, "group", "", "Group path, e.g. Internet/Dev")
	addCmd.Flags().BoolVar(&addGenerate, "generate", false, "Generate a random password")
	_ = addCmd.MarkFlagRequired("title")
}

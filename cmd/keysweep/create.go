package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/vault"
)

var createCmd = &cobra.Command{
	Use:   "create <database>",
	Short: "Create a new empty vault database",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		path, _ := resolveDBPath(args)
		if path == "" {
			fmt.Fprintf(os.Stderr, "Error: no database specified (pass <database>, --db, or KEYSWEEP_DB)\n")
			os.Exit(1)
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
			os.Exit(1)
		}

		store, err := vault.Open(ctx, &vault.Config{Path: path})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create database: %v\n", err)
			os.Exit(1)
		}
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to close database: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s Created vault %s\n", green("✓"), path)
		fmt.Printf("  %s\n", gray(fmt.Sprintf("keysweep add %s --title ... # add your first entry", path)))
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}

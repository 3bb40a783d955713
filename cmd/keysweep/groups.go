package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups <database>",
	Short: "List the group paths in use",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, args)
		defer store.Close()

		groups, err := store.ListGroups(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list groups: %v\n", err)
			os.Exit(1)
		}

		if len(groups) == 0 {
			fmt.Println("No groups found.")
			return
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s\n", cyan("Groups:"))
		for _, g := range groups {
			fmt.Printf("  %s\n", g)
		}
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

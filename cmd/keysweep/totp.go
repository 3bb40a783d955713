package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/totp"
	"github.com/samarthya/keysweep/internal/types"
)

var (
	totpWatch bool
	totpURI   bool
	totpSetup bool
)

var totpCmd = &cobra.Command{
	Use:   "totp <database> <id-or-title>",
	Short: "Show the TOTP code for an entry",
	Long: `Print the current one-time code for an entry carrying a TOTP secret.

With --watch, keep printing a fresh code every time the previous one
expires, until interrupted. With --setup, generate a new secret, store
it on the entry, and print the otpauth:// URI to scan into an
authenticator app.`,
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

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		if totpSetup {
			if entry.OTPSecret != "" {
				fmt.Fprintf(os.Stderr, "Error: %s already has a TOTP secret (remove it first to rotate)\n",
					entry.DisplayName())
				os.Exit(1)
			}
			secret, err := totp.GenerateSecret()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			update := &types.EntryUpdate{OTPSecret: &secret}
			if err := store.UpdateEntry(ctx, entry.ID, update); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to store secret: %v\n", err)
				os.Exit(1)
			}
			if err := store.Save(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to save: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("%s TOTP secret stored on %s\n", green("✓"), entry.DisplayName())
			fmt.Printf("  Secret: %s\n", secret)
			fmt.Printf("  URI:    %s\n", totp.ProvisioningURI(secret, entry.Username, "keysweep"))
			return
		}

		if entry.OTPSecret == "" {
			fmt.Fprintf(os.Stderr, "Error: %s has no TOTP secret (use --setup to add one)\n", entry.DisplayName())
			os.Exit(1)
		}

		if totpURI {
			fmt.Println(totp.ProvisioningURI(entry.OTPSecret, entry.Username, "keysweep"))
			return
		}

		printCode := func() error {
			code, err := totp.Code(entry.OTPSecret)
			if err != nil {
				return err
			}
			remaining := int(totp.Remaining(time.Now()).Seconds())
			fmt.Printf("%s  %s\n", code, gray(fmt.Sprintf("(%ds left)", remaining)))
			return nil
		}

		if err := printCode(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !totpWatch {
			return
		}

		// Re-print on every period boundary until interrupted
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-time.After(totp.Remaining(time.Now())):
				if err := printCode(); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(totpCmd)
	totpCmd.Flags().BoolVar(&totpWatch, "watch", false, "Keep printing fresh codes until interrupted")
	totpCmd.Flags().BoolVar(&totpURI, "uri", false, "Print the otpauth:// provisioning URI instead")
	totpCmd.Flags().BoolVar(&totpSetup, "setup", false, "Generate and store a new secret for the entry")
}

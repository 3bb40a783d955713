package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/config"
	"github.com/samarthya/keysweep/internal/vault"
)

// Version is the CLI version, overridable at build time via -ldflags
var Version = "0.3.0"

var (
	dbFlag string
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "keysweep",
	Short: "Find and safely remove duplicate password entries",
	Long: `keysweep scans a password vault for duplicate entries — entries whose
URL and username normalize to the same key — and walks you through
removing the redundant copies.

Safety model:
  - A timestamped backup is written before anything is deleted
  - Deletions go through the recycle bin and can be restored
  - Every committed decision is appended to an audit log
  - Nothing is applied until you confirm; quit discards everything

The database path can be given as the first argument, via --db, or via
the KEYSWEEP_DB environment variable. A .env file in the working
directory is honored.`,
	Version: Version,
}

func main() {
	// A missing .env is fine; a malformed one is not
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}

	loaded, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "",
		"Path to the vault database (overrides KEYSWEEP_DB)")
}

// resolveDBPath picks the database path from the positional argument, the
// --db flag, or KEYSWEEP_DB, in that order. Remaining args are returned
// for commands taking further positionals.
func resolveDBPath(args []string) (string, []string) {
	if len(args) > 0 {
		return args[0], args[1:]
	}
	if dbFlag != "" {
		return dbFlag, nil
	}
	return os.Getenv("KEYSWEEP_DB"), nil
}

// openStore resolves the database path and opens the vault, exiting with
// an error when no path is given or the file is missing
func openStore(ctx context.Context, args []string) (vault.Store, []string) {
	path, rest := resolveDBPath(args)
	if path == "" {
		fmt.Fprintf(os.Stderr, "Error: no database specified (pass <database>, --db, or KEYSWEEP_DB)\n")
		os.Exit(1)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: database %s does not exist (run 'keysweep create %s' first)\n", path, path)
		os.Exit(1)
	}

	store, err := vault.Open(ctx, &vault.Config{Path: path})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database %s: %v\n", path, err)
		os.Exit(1)
	}
	return store, rest
}

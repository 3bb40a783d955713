package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarthya/keysweep/internal/generator"
)

var (
	genLength     int
	genCount      int
	genNoLower    bool
	genNoUpper    bool
	genNoDigits   bool
	genNoSpecial  bool
	genNoAmbig    bool
	genCharset    string
	genPassphrase bool
	genWords      int
	genSeparator  string
	genCapitalize bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random passwords or passphrases",
	Long: `Generate one or more random passwords from cryptographic randomness,
with a strength assessment next to each. With --passphrase, generate
word-based passphrases instead.

Examples:
  # One 16-character password from all character classes
  keysweep generate

  # Five 24-character passwords without lookalike characters
  keysweep generate --length 24 --count 5 --exclude-ambiguous

  # A six-word passphrase
  keysweep generate --passphrase

  # A capitalized four-word passphrase joined with dots
  keysweep generate --passphrase --words 4 --separator . --capitalize`,
	Run: func(cmd *cobra.Command, args []string) {
		if genPassphrase {
			runPassphrase()
			return
		}

		opts := generator.Options{
			Length:           genLength,
			UseLowercase:     !genNoLower,
			UseUppercase:     !genNoUpper,
			UseDigits:        !genNoDigits,
			UseSpecial:       !genNoSpecial,
			ExcludeAmbiguous: genNoAmbig,
			CustomCharset:    genCharset,
		}
		if err := opts.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for i := 0; i < genCount; i++ {
			password, err := generator.Generate(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			assessment := generator.AssessStrength(password)
			fmt.Printf("%s  %s\n", password, strengthLabel(assessment))
		}
	},
}

func runPassphrase() {
	opts := generator.PassphraseOptions{
		WordCount:  genWords,
		Separator:  genSeparator,
		Capitalize: genCapitalize,
	}
	for i := 0; i < genCount; i++ {
		phrase, err := generator.GeneratePassphrase(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		assessment := generator.AssessStrength(phrase)
		fmt.Printf("%s  %s\n", phrase, strengthLabel(assessment))
	}
}

// strengthLabel colors the assessment by score: green for strong, yellow
// for fair, red for anything weaker
func strengthLabel(a generator.Assessment) string {
	label := fmt.Sprintf("(%s, %.1f bits)", a.Strength, a.Entropy)
	switch {
	case a.Score >= 4:
		return color.GreenString(label)
	case a.Score >= 3:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&genLength, "length", "l", 16, "Password length")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 1, "How many to generate")
	generateCmd.Flags().BoolVar(&genNoLower, "no-lowercase", false, "Exclude lowercase letters")
	generateCmd.Flags().BoolVar(&genNoUpper, "no-uppercase", false, "Exclude uppercase letters")
	generateCmd.Flags().BoolVar(&genNoDigits, "no-digits", false, "Exclude digits")
	generateCmd.Flags().BoolVar(&genNoSpecial, "no-special", false, "Exclude special characters")
	generateCmd.Flags().BoolVar(&genNoAmbig, "exclude-ambiguous", false, "Exclude lookalike characters (il1Lo0O)")
	generateCmd.Flags().StringVar(&genCharset, "charset", "", "Draw from a custom character set instead")
	generateCmd.Flags().BoolVar(&genPassphrase, "passphrase", false, "Generate word-based passphrases instead")
	generateCmd.Flags().IntVarP(&genWords, "words", "w", 6, "Words per passphrase")
	generateCmd.Flags().StringVarP(&genSeparator, "separator", "s", "-", "Word separator")
	generateCmd.Flags().BoolVar(&genCapitalize, "capitalize", false, "Capitalize each word")
}

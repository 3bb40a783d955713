// Package generator produces random passwords and passphrases.
//
// All randomness comes from crypto/rand; math/rand is never used here.
// Entropy estimates follow the usual log2(charset^length) model over the
// character classes actually present in the password.
package generator

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Character sets
const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Special   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// Ambiguous characters easily misread in some fonts
	Ambiguous = "il1Lo0O"
)

// Options controls password generation
type Options struct {
	// Length is the number of characters to generate.
	// Default: 16
	Length int

	// UseLowercase includes a-z
	UseLowercase bool

	// UseUppercase includes A-Z
	UseUppercase bool

	// UseDigits includes 0-9
	UseDigits bool

	// UseSpecial includes punctuation
	UseSpecial bool

	// ExcludeAmbiguous drops characters easily misread (il1Lo0O).
	// Ignored when CustomCharset is set.
	ExcludeAmbiguous bool

	// CustomCharset overrides every class toggle when non-empty
	CustomCharset string
}

// DefaultOptions returns the default generation options: 16 characters
// drawn from all four classes
func DefaultOptions() Options {
	return Options{
		Length:       16,
		UseLowercase: true,
		UseUppercase: true,
		UseDigits:    true,
		UseSpecial:   true,
	}
}

// Validate checks if the options have valid values
func (o Options) Validate() error {
	if o.Length < 1 {
		return fmt.Errorf("length must be at least 1 (got %d)", o.Length)
	}
	if o.Length > 4096 {
		return fmt.Errorf("length too large (got %d, max 4096)", o.Length)
	}
	if _, err := o.charset(); err != nil {
		return err
	}
	return nil
}

// charset assembles the effective character set
func (o Options) charset() (string, error) {
	if o.CustomCharset != "" {
		return o.CustomCharset, nil
	}

	var sb strings.Builder
	if o.UseLowercase {
		sb.WriteString(Lowercase)
	}
	if o.UseUppercase {
		sb.WriteString(Uppercase)
	}
	if o.UseDigits {
		sb.WriteString(Digits)
	}
	if o.UseSpecial {
		sb.WriteString(Special)
	}

	charset := sb.String()
	if o.ExcludeAmbiguous {
		charset = strings.Map(func(r rune) rune {
			if strings.ContainsRune(Ambiguous, r) {
				return -1
			}
			return r
		}, charset)
	}

	if charset == "" {
		return "", fmt.Errorf("at least one character set must be selected")
	}
	return charset, nil
}

// Generate returns a random password per the options
func Generate(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	charset, err := opts.charset()
	if err != nil {
		return "", err
	}

	runes := []rune(charset)
	out := make([]rune, opts.Length)
	for i := range out {
		idx, err := randomIndex(len(runes))
		if err != nil {
			return "", err
		}
		out[i] = runes[idx]
	}
	return string(out), nil
}

// PassphraseOptions controls passphrase generation
type PassphraseOptions struct {
	// WordCount is the number of words to join.
	// Default: 6
	WordCount int

	// Separator joins the words.
	// Default: "-"
	Separator string

	// Capitalize upper-cases the first letter of each word
	Capitalize bool

	// WordList overrides the built-in word list when non-empty
	WordList []string
}

// DefaultPassphraseOptions returns the default passphrase options: six
// hyphen-separated words
func DefaultPassphraseOptions() PassphraseOptions {
	return PassphraseOptions{
		WordCount: 6,
		Separator: "-",
	}
}

// Validate checks if the passphrase options have valid values
func (o PassphraseOptions) Validate() error {
	if o.WordCount < 1 {
		return fmt.Errorf("word count must be at least 1 (got %d)", o.WordCount)
	}
	if o.WordCount > 64 {
		return fmt.Errorf("word count too large (got %d, max 64)", o.WordCount)
	}
	return nil
}

// GeneratePassphrase returns a random passphrase per the options
func GeneratePassphrase(opts PassphraseOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	list := opts.WordList
	if len(list) == 0 {
		list = wordlist
	}

	words := make([]string, opts.WordCount)
	for i := range words {
		idx, err := randomIndex(len(list))
		if err != nil {
			return "", err
		}
		word := list[idx]
		if opts.Capitalize {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		words[i] = word
	}
	return strings.Join(words, opts.Separator), nil
}

// randomIndex returns an unbiased random index in [0, n)
func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return int(v.Int64()), nil
}

// Entropy estimates password entropy in bits from the character classes
// present: length * log2(total size of the detected classes). Characters
// outside all four classes contribute nothing to the charset estimate.
func Entropy(password string) float64 {
	if password == "" {
		return 0
	}

	size := 0
	if strings.ContainsAny(password, Lowercase) {
		size += len(Lowercase)
	}
	if strings.ContainsAny(password, Uppercase) {
		size += len(Uppercase)
	}
	if strings.ContainsAny(password, Digits) {
		size += len(Digits)
	}
	if strings.ContainsAny(password, Special) {
		size += len(Special)
	}
	if size == 0 {
		return 0
	}
	return float64(len(password)) * math.Log2(float64(size))
}

// Assessment describes how strong a password is
type Assessment struct {
	// Entropy is the estimated entropy in bits
	Entropy float64 `json:"entropy"`

	// Strength is the human-readable classification
	Strength Strength `json:"strength"`

	// Score ranges 1 (very weak) to 5 (very strong)
	Score int `json:"score"`

	// Length is the password length in characters
	Length int `json:"length"`
}

// Strength classifies a password by its estimated entropy
type Strength string

const (
	StrengthVeryWeak   Strength = "Very Weak"   // under 28 bits
	StrengthWeak       Strength = "Weak"        // 28-35 bits
	StrengthFair       Strength = "Fair"        // 36-59 bits
	StrengthStrong     Strength = "Strong"      // 60-127 bits
	StrengthVeryStrong Strength = "Very Strong" // 128 bits and up
)

// AssessStrength classifies a password by estimated entropy
func AssessStrength(password string) Assessment {
	entropy := Entropy(password)

	var strength Strength
	var score int
	switch {
	case entropy < 28:
		strength, score = StrengthVeryWeak, 1
	case entropy < 36:
		strength, score = StrengthWeak, 2
	case entropy < 60:
		strength, score = StrengthFair, 3
	case entropy < 128:
		strength, score = StrengthStrong, 4
	default:
		strength, score = StrengthVeryStrong, 5
	}

	return Assessment{
		Entropy:  entropy,
		Strength: strength,
		Score:    score,
		Length:   len(password),
	}
}

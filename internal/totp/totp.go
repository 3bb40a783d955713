// Package totp generates and verifies time-based one-time passwords for
// entries that carry an OTP secret.
package totp

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	totplib "github.com/pquerna/otp/totp"
)

// Period is the code rotation interval in seconds
const Period = 30

// GenerateKey creates a fresh TOTP key for the given account. The
// returned key carries both the base32 secret and the otpauth:// URL.
func GenerateKey(issuer, account string) (*otp.Key, error) {
	if issuer == "" {
		issuer = "keysweep"
	}
	if account == "" {
		return nil, fmt.Errorf("account name is required")
	}
	key, err := totplib.Generate(totplib.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	return key, nil
}

// GenerateSecret creates a fresh base32 TOTP secret
func GenerateSecret() (string, error) {
	key, err := GenerateKey("keysweep", "vault")
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// Code returns the current 6-digit code for a secret
func Code(secret string) (string, error) {
	return CodeAt(secret, time.Now())
}

// CodeAt returns the 6-digit code for a secret at the given time
func CodeAt(secret string, t time.Time) (string, error) {
	code, err := totplib.GenerateCode(normalizeSecret(secret), t)
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP code: %w", err)
	}
	return code, nil
}

// Verify checks a code against a secret at the current time
func Verify(secret, code string) bool {
	return VerifyAt(secret, code, time.Now())
}

// VerifyAt checks a code against a secret at the given time, accepting
// one period of clock skew in either direction
func VerifyAt(secret, code string, t time.Time) bool {
	ok, err := totplib.ValidateCustom(strings.TrimSpace(code), normalizeSecret(secret), t,
		totplib.ValidateOpts{
			Period:    Period,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
	return err == nil && ok
}

// Remaining returns how long the code for the given time stays valid
func Remaining(t time.Time) time.Duration {
	elapsed := t.Unix() % Period
	return time.Duration(Period-elapsed) * time.Second
}

// ProvisioningURI builds the otpauth:// URL authenticator apps import,
// in the conventional issuer:account label form
func ProvisioningURI(secret, account, issuer string) string {
	label := escapeLabel(account)
	query := url.Values{}
	query.Set("secret", normalizeSecret(secret))
	if issuer != "" {
		label = escapeLabel(issuer) + ":" + label
		query.Set("issuer", issuer)
	}
	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode())
}

// escapeLabel percent-encodes a URI label component, including '@', with
// spaces as %20
func escapeLabel(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// normalizeSecret cleans up hand-entered secrets: spaces stripped,
// uppercased
func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
}

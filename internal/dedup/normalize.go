package dedup

import (
	"strings"

	"github.com/samarthya/keysweep/internal/types"
)

// NormalizeURL canonicalizes a URL for duplicate matching.
//
// The transformation is purely lexical and never fails:
//   - lowercase the whole string
//   - strip one leading "http://" or "https://" scheme
//   - strip one leading "www." label
//   - strip a single trailing "/"
//
// Anything else (ports, paths, query strings, unusual schemes) is left
// untouched. Empty or whitespace-only input normalizes to "".
func NormalizeURL(raw string) string {
	url := strings.ToLower(strings.TrimSpace(raw))
	if url == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(url, "https://"); ok {
		url = rest
	} else if rest, ok := strings.CutPrefix(url, "http://"); ok {
		url = rest
	}
	url = strings.TrimPrefix(url, "www.")
	url = strings.TrimSuffix(url, "/")
	return url
}

// NormalizeUsername canonicalizes a username for duplicate matching:
// lowercase plus surrounding-whitespace trim. Usernames are treated as
// case-insensitive account identifiers.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// DegradedURL reports whether a raw URL is malformed in a way NormalizeURL
// silently tolerates. The normalized key is still usable for matching;
// this exists only so callers can log the oddity. The empty string is not
// degraded, it is simply absent.
func DegradedURL(raw string) (reason string, degraded bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	switch {
	case strings.ContainsAny(trimmed, " \t"):
		return "interior whitespace", true
	case strings.Contains(trimmed, "\\"):
		return "backslash in URL", true
	}
	if i := strings.Index(trimmed, "://"); i >= 0 {
		scheme := strings.ToLower(trimmed[:i])
		if scheme != "http" && scheme != "https" {
			return "unrecognized scheme " + scheme, true
		}
	}
	return "", false
}

// NormalizedKey identifies the service/account pair an entry refers to.
// Two entries with equal keys are considered duplicates of each other.
type NormalizedKey struct {
	// URL is the normalized URL half of the key (see NormalizeURL)
	URL string `json:"url"`

	// Username is the normalized username half of the key (see NormalizeUsername)
	Username string `json:"username"`
}

// KeyFor derives the normalized key for an entry
func KeyFor(e *types.Entry) NormalizedKey {
	return NormalizedKey{
		URL:      NormalizeURL(e.URL),
		Username: NormalizeUsername(e.Username),
	}
}

// Complete reports whether both halves of the key are non-empty.
// Incomplete keys never participate in duplicate matching: an entry with
// no URL tells us nothing about which service it belongs to, and grouping
// every such entry together would produce meaningless matches.
func (k NormalizedKey) Complete() bool {
	return k.URL != "" && k.Username != ""
}

// String returns the canonical "url|username" form used in report output
// and audit records
func (k NormalizedKey) String() string {
	return k.URL + "|" + k.Username
}

// Package dedup detects duplicate entries in a password vault.
//
// # Overview
//
// Vaults accumulate near-identical entries over time: the same account
// saved once as "https://www.example.com/" and again as "example.com",
// or with the username typed in a different case. The dedup package
// finds these groups so they can be reported or cleaned up.
//
// # Matching model
//
// Two entries are duplicates when their normalized keys are equal. The
// key is the pair (NormalizeURL(url), NormalizeUsername(username)):
//
//   - URL normalization lowercases, strips one leading http:// or
//     https:// scheme, one leading www. label, and a single trailing
//     slash. It is lexical only; it never parses or fails.
//   - Username normalization lowercases and trims whitespace.
//
// Entries whose normalized URL or username is empty carry too little
// identity to match safely and are excluded from grouping.
//
// Matching is exact equality on the normalized key. There is no fuzzy or
// semantic similarity: "github.com" and "gist.github.com" are different
// services and never group together.
//
// # Scanning
//
// FindDuplicates makes a single hash-grouping pass over the entries
// (O(n), no pairwise comparison), drops groups with fewer than two
// members, flags groups whose entries span more than one distinct
// password value, and sorts groups largest first for the report.
//
// # Reports
//
// RenderText and RenderJSON turn a DuplicateReport into operator-facing
// output. Both are pure functions, and neither ever includes a password
// value: a report can be written to disk or piped elsewhere without
// leaking secrets.
package dedup

// Package normalize canonicalizes free-text identifiers into
// comparison-ready candidate keys and content fingerprints.
//
// Keys are lossy by design: they exist to group records cheaply before
// pairwise scoring, never to decide a match on their own.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

// MinFingerprintLen is the minimum raw text length eligible for
// fingerprinting. Shorter strings are too generic to block on.
const MinFingerprintLen = 20

// digestLen is the hex length of a fingerprint digest.
const digestLen = 16

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|\bt\.co/\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	trailingDigits = regexp.MustCompile(`\d+$`)
)

// Identifier normalizes a username-like identifier for blocking.
// It lower-cases, strips separators (".", "_", "-") and whitespace, and
// removes a trailing run of digits (version/serial suffixes).
// Empty input yields an empty key; empty keys never participate in
// blocking. Identifier is idempotent.
func Identifier(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '.' || r == '_' || r == '-':
			// separator, dropped
		case unicode.IsSpace(r):
			// whitespace, dropped
		default:
			b.WriteRune(r)
		}
	}

	return trailingDigits.ReplaceAllString(b.String(), "")
}

// Name normalizes a display name for blocking: lower-case, punctuation
// stripped, internal whitespace collapsed. Idempotent.
func Name(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Fingerprint reduces long free text (biography, post content) to a
// fixed-width digest for near-duplicate detection. URLs, @-mentions,
// #-hashtags and punctuation are stripped and whitespace collapsed
// before hashing, so trivially decorated copies of the same text
// produce the same fingerprint.
//
// Texts shorter than MinFingerprintLen return an empty fingerprint and
// are excluded from fingerprint-based blocking and overlap scoring.
func Fingerprint(s string) string {
	if len(s) < MinFingerprintLen {
		return ""
	}

	cleaned := Clean(s)
	if cleaned == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(cleaned))
	return hex.EncodeToString(hash[:])[:digestLen]
}

// Clean returns the canonical text form used for fingerprinting:
// lower-cased, URLs/mentions/hashtags removed, punctuation stripped,
// whitespace collapsed.
func Clean(s string) string {
	s = strings.ToLower(s)
	s = urlPattern.ReplaceAllString(s, "")
	s = mentionPattern.ReplaceAllString(s, "")
	s = hashtagPattern.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	folder = cases.Fold()
	// accentStripper decomposes, drops combining marks, and recomposes.
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Fold returns the comparison key for s: NFKC-normalized, case-folded, with
// diacritics removed and surrounding whitespace trimmed.
func Fold(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = folder.String(s)
	return StripDiacritics(s)
}

// StripDiacritics removes combining marks, so "café" becomes "cafe".
func StripDiacritics(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// LettersOnly keeps letters, apostrophes, hyphens, and single spaces between
// words. Digits and every other symbol are dropped.
func LettersOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), r == '\'', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return CollapseSpace(strings.Trim(b.String(), "'- "))
}

// CollapseSpace replaces every whitespace run with a single space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeList collapses whitespace in each value, drops empty entries and
// case-insensitive duplicates, and keeps at most limit entries (limit <= 0
// keeps all). Order is preserved.
func SanitizeList(values []string, limit int) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		cleaned := CollapseSpace(value)
		if cleaned == "" {
			continue
		}
		key := Fold(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

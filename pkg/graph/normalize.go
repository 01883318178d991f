package graph

import (
	"strings"
	"unicode"
)

var foldReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
)

// NormalizeName produces the canonical matching key for a concept name.
// Lower-cased, curly quotes and long dashes folded to ASCII, whitespace
// collapsed, punctuation other than apostrophe and hyphen stripped.
//
// The key is used for identity only; display always uses the original
// casing of the first-seen form.
func NormalizeName(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = foldReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == '\'' || r == '-':
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeTextForEvidence prepares document text for evidence matching:
// lower-cased with curly quotes and long dashes folded, but punctuation and
// whitespace left intact so snippets still match as literal substrings.
func NormalizeTextForEvidence(t string) string {
	if t == "" {
		return ""
	}
	return foldReplacer.Replace(strings.ToLower(t))
}

// evidenceSupported reports whether at least one snippet appears in the
// normalized source text. This is the cheap guardrail against edges built
// on invented quotes.
func evidenceSupported(evidence []string, textNorm string) bool {
	for _, s := range evidence {
		ss := strings.TrimSpace(s)
		if ss == "" {
			continue
		}
		if strings.Contains(textNorm, NormalizeTextForEvidence(ss)) {
			return true
		}
	}
	return false
}

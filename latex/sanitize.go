// Package latex normalizes raw equation strings returned by the backend
// into a form safe to embed between math delimiters.
//
// Model responses routinely arrive wrapped in code fences, quotes, or a
// stray "latex" language tag. Sanitize strips all of that artifact noise
// without touching the expression itself.
package latex

import (
	"regexp"
	"strings"
)

var (
	// Whole-word "latex" in any position, case-insensitive. The tag can
	// leak into the middle of a fenced block, so the match is global
	// rather than edge-only.
	latexWordRegex = regexp.MustCompile(`(?i)\blatex\b`)

	leadingFenceRegex  = regexp.MustCompile("^(```|''')")
	trailingFenceRegex = regexp.MustCompile("(```|''')$")
)

// Sanitize normalizes a raw backend string for embedding inside math
// delimiters. It is idempotent: sanitizing an already-clean string is a
// no-op. Empty input yields empty output; Sanitize never fails.
func Sanitize(raw string) string {
	s := raw

	// Iterate until stable so stacked artifacts (a fence wrapping a
	// quoted string, say) all come off. Each pass only ever removes
	// characters, so this terminates.
	for {
		prev := s

		s = strings.TrimSpace(s)
		s = leadingFenceRegex.ReplaceAllString(s, "")
		s = trailingFenceRegex.ReplaceAllString(s, "")
		s = latexWordRegex.ReplaceAllString(s, "")
		s = stripEdgeQuote(s)
		s = strings.Trim(s, "\\")

		if s == prev {
			return s
		}
	}
}

// stripEdgeQuote removes a single leading and trailing quote character,
// single or double. Only one layer per call; the fixpoint loop in
// Sanitize handles nesting.
func stripEdgeQuote(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}

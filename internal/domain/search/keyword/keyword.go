// Package keyword normalizes recruiter keyword input into an ordered set.
package keyword

import "strings"

// Separator splits free-form keyword input.
const Separator = ","

// Set is an ordered sequence of distinct, lower-cased, trimmed keywords.
// First-seen order is preserved.
type Set struct {
	tokens []string
}

// New normalizes raw keywords: trims, lower-cases, drops empties and collapses duplicates.
func New(raw []string) Set {
	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		t := strings.ToLower(strings.TrimSpace(r))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return Set{tokens: tokens}
}

// Parse splits comma-separated input and normalizes it.
func Parse(input string) Set {
	return New(strings.Split(input, Separator))
}

// Tokens returns a copy of the keywords in first-seen order.
func (s Set) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Len returns the number of keywords.
func (s Set) Len() int { return len(s.tokens) }

// IsEmpty reports whether the set holds no keywords.
func (s Set) IsEmpty() bool { return len(s.tokens) == 0 }

// String joins the keywords for logging.
func (s Set) String() string { return strings.Join(s.tokens, Separator+" ") }

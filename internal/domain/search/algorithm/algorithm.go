package algorithm

import (
	"fmt"
	"strings"
)

// Algorithm selects the exact string-matching strategy for a search.
type Algorithm string

// Exact matching algorithms.
const (
	// KMP is Knuth-Morris-Pratt; counts overlapping occurrences.
	KMP Algorithm = "kmp"
	// BoyerMoore is the Horspool variant; counts non-overlapping occurrences.
	BoyerMoore Algorithm = "bm"
	// AhoCorasick matches the whole keyword set in a single pass.
	AhoCorasick Algorithm = "ac"
)

var aliases = map[string]Algorithm{
	"kmp":          KMP,
	"bm":           BoyerMoore,
	"boyer-moore":  BoyerMoore,
	"boyermoore":   BoyerMoore,
	"ac":           AhoCorasick,
	"aho-corasick": AhoCorasick,
	"ahocorasick":  AhoCorasick,
}

// IsValid checks if the algorithm is one of the supported values.
func (a Algorithm) IsValid() bool {
	return a == KMP || a == BoyerMoore || a == AhoCorasick
}

// String returns a human-readable name.
func (a Algorithm) String() string {
	switch a {
	case KMP:
		return "KMP"
	case BoyerMoore:
		return "Boyer-Moore"
	case AhoCorasick:
		return "Aho-Corasick"
	default:
		return string(a)
	}
}

// Parse resolves a user-supplied algorithm name, case-insensitively.
func Parse(name string) (Algorithm, error) {
	a, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown algorithm %q", name)
	}
	return a, nil
}

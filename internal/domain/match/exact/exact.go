// Package exact implements deterministic substring counting:
// Knuth-Morris-Pratt, Boyer-Moore (Horspool) and Aho-Corasick.
//
// Matching is byte-exact; callers normalize case. An empty pattern or an
// empty text never matches. Overlap policy differs by algorithm:
// KMP and Aho-Corasick count overlapping occurrences, Boyer-Moore counts
// non-overlapping ones, so counts are not comparable across algorithms.
package exact

import (
	"fmt"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
)

// Matcher counts pattern occurrences in text.
type Matcher interface {
	// Count returns the number of occurrences of pattern in text.
	Count(text, pattern string) int
	// CountAll returns the total and per-pattern occurrence counts.
	CountAll(text string, patterns []string) (int, map[string]int)
	// Compile preprocesses patterns once for repeated scans.
	Compile(patterns []string) Searcher
}

// Searcher scans texts against a precompiled, read-only pattern set.
// It is safe for concurrent use.
type Searcher interface {
	Search(text string) (int, map[string]int)
}

// For returns the matcher implementing algo.
func For(algo algorithm.Algorithm) (Matcher, error) {
	switch algo {
	case algorithm.KMP:
		return KMP{}, nil
	case algorithm.BoyerMoore:
		return BoyerMoore{}, nil
	case algorithm.AhoCorasick:
		return AhoCorasick{}, nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %q", algo)
	}
}

// dedupe keeps first occurrences so per-pattern maps have one key per pattern.
func dedupe(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// singleSearcher runs a per-pattern counter for every pattern.
type singleSearcher struct {
	patterns []string
	count    func(text string, i int) int
}

func (s *singleSearcher) Search(text string) (int, map[string]int) {
	per := make(map[string]int, len(s.patterns))
	total := 0
	for i, p := range s.patterns {
		n := s.count(text, i)
		per[p] = n
		total += n
	}
	return total, per
}

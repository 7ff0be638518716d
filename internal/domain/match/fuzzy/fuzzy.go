// Package fuzzy implements a bounded Levenshtein search over the
// whitespace-delimited tokens of a text. Patterns are compared against single
// tokens, so a pattern containing whitespace only resolves if the limit
// covers its length difference to some token.
package fuzzy

import "strings"

// Distance returns the Levenshtein distance between a and b
// (unit-cost insertion, deletion, substitution over runes).
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	return bounded(ra, rb, max(len(ra), len(rb)))
}

// DistanceLimited returns Distance(segment, pattern) when it is at most
// limit, and limit+1 otherwise. A negative limit is treated as zero.
func DistanceLimited(segment, pattern string, limit int) int {
	return bounded([]rune(segment), []rune(pattern), max(limit, 0))
}

// Nearest returns the smallest distance between pattern and any token of
// text, and whether it lies within limit. Scanning stops at an exact token.
func Nearest(text, pattern string, limit int) (int, bool) {
	limit = max(limit, 0)
	p := []rune(pattern)
	best := limit + 1
	for _, token := range strings.Fields(text) {
		t := []rune(token)
		if abs(len(t)-len(p)) > limit {
			continue
		}
		if d := bounded(t, p, limit); d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	if best > limit {
		return 0, false
	}
	return best, true
}

// bounded keeps two rows of len(p)+1 cells. Row minima never decrease, so
// once a row minimum exceeds limit the final distance must as well.
func bounded(s, p []rune, limit int) int {
	if abs(len(s)-len(p)) > limit {
		return limit + 1
	}

	prev := make([]int, len(p)+1)
	cur := make([]int, len(p)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(p); j++ {
			cost := 1
			if s[i-1] == p[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}

	if d := prev[len(p)]; d <= limit {
		return d
	}
	return limit + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package exact

// BoyerMoore counts non-overlapping occurrences with the Horspool
// bad-character rule. After a full match the window advances by the whole
// pattern length.
type BoyerMoore struct{}

var _ Matcher = BoyerMoore{}

// Count returns the number of non-overlapping occurrences of pattern in text.
func (BoyerMoore) Count(text, pattern string) int {
	if pattern == "" {
		return 0
	}
	return horspoolCount(text, pattern, shiftTable(pattern))
}

// CountAll counts every pattern independently.
func (b BoyerMoore) CountAll(text string, patterns []string) (int, map[string]int) {
	return b.Compile(patterns).Search(text)
}

// Compile builds one shift table per pattern.
func (BoyerMoore) Compile(patterns []string) Searcher {
	patterns = dedupe(patterns)
	tables := make([]*[256]int, len(patterns))
	for i, p := range patterns {
		if p != "" {
			tables[i] = shiftTable(p)
		}
	}
	return &singleSearcher{
		patterns: patterns,
		count: func(text string, i int) int {
			if patterns[i] == "" {
				return 0
			}
			return horspoolCount(text, patterns[i], tables[i])
		},
	}
}

// shiftTable maps each byte to its distance from the last occurrence in
// pattern, ignoring the final position. Absent bytes shift by len(pattern).
func shiftTable(pattern string) *[256]int {
	m := len(pattern)
	var skip [256]int
	for c := range skip {
		skip[c] = m
	}
	for i := 0; i < m-1; i++ {
		skip[pattern[i]] = m - 1 - i
	}
	return &skip
}

func horspoolCount(text, pattern string, skip *[256]int) int {
	n, m := len(text), len(pattern)
	if m == 0 || m > n {
		return 0
	}

	count := 0
	for i := 0; i <= n-m; {
		j := m - 1
		for j >= 0 && pattern[j] == text[i+j] {
			j--
		}
		if j < 0 {
			count++
			i += m
			continue
		}
		i += skip[text[i+m-1]]
	}
	return count
}

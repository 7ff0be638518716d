package exact

// KMP counts overlapping occurrences with the Knuth-Morris-Pratt algorithm.
type KMP struct{}

var _ Matcher = KMP{}

// Count returns the number of overlapping occurrences of pattern in text.
func (KMP) Count(text, pattern string) int {
	if pattern == "" {
		return 0
	}
	return kmpCount(text, pattern, failureTable(pattern))
}

// CountAll counts every pattern independently.
func (k KMP) CountAll(text string, patterns []string) (int, map[string]int) {
	return k.Compile(patterns).Search(text)
}

// Compile builds one failure table per pattern.
func (KMP) Compile(patterns []string) Searcher {
	patterns = dedupe(patterns)
	tables := make([][]int, len(patterns))
	for i, p := range patterns {
		if p != "" {
			tables[i] = failureTable(p)
		}
	}
	return &singleSearcher{
		patterns: patterns,
		count: func(text string, i int) int {
			if patterns[i] == "" {
				return 0
			}
			return kmpCount(text, patterns[i], tables[i])
		},
	}
}

// failureTable computes the longest proper prefix that is also a suffix
// for every prefix of pattern.
func failureTable(pattern string) []int {
	lps := make([]int, len(pattern))
	length := 0
	for i := 1; i < len(pattern); {
		switch {
		case pattern[i] == pattern[length]:
			length++
			lps[i] = length
			i++
		case length != 0:
			length = lps[length-1]
		default:
			lps[i] = 0
			i++
		}
	}
	return lps
}

func kmpCount(text, pattern string, lps []int) int {
	n, m := len(text), len(pattern)
	if m == 0 || m > n {
		return 0
	}

	count := 0
	j := 0
	for i := 0; i < n; i++ {
		for j > 0 && text[i] != pattern[j] {
			j = lps[j-1]
		}
		if text[i] == pattern[j] {
			j++
		}
		if j == m {
			count++
			// Resume from the border so overlapping matches are counted.
			j = lps[m-1]
		}
	}
	return count
}

package exact

// AhoCorasick counts overlapping occurrences of a whole pattern set in a
// single pass over the text.
type AhoCorasick struct{}

var _ Matcher = AhoCorasick{}

// Count returns the number of overlapping occurrences of pattern in text.
func (a AhoCorasick) Count(text, pattern string) int {
	total, _ := a.Compile([]string{pattern}).Search(text)
	return total
}

// CountAll builds an automaton for patterns and scans text once.
func (a AhoCorasick) CountAll(text string, patterns []string) (int, map[string]int) {
	return a.Compile(patterns).Search(text)
}

// Compile builds the trie, failure links and merged output sets.
func (AhoCorasick) Compile(patterns []string) Searcher {
	return newAutomaton(dedupe(patterns))
}

const root = 0

type acNode struct {
	next map[byte]int32
	fail int32
	// out lists pattern indexes ending here, directly or via failure links.
	out []int32
}

type automaton struct {
	nodes    []acNode
	patterns []string
}

func newAutomaton(patterns []string) *automaton {
	a := &automaton{
		nodes:    []acNode{{next: map[byte]int32{}}},
		patterns: patterns,
	}
	for i, p := range patterns {
		if p == "" {
			continue
		}
		a.insert(p, int32(i))
	}
	a.link()
	return a
}

func (a *automaton) insert(pattern string, idx int32) {
	cur := int32(root)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		nxt, ok := a.nodes[cur].next[c]
		if !ok {
			nxt = int32(len(a.nodes))
			a.nodes = append(a.nodes, acNode{next: map[byte]int32{}})
			a.nodes[cur].next[c] = nxt
		}
		cur = nxt
	}
	a.nodes[cur].out = append(a.nodes[cur].out, idx)
}

// link computes failure links breadth-first. A node's failure target is
// strictly shallower, so its output set is final before it is merged.
func (a *automaton) link() {
	queue := make([]int32, 0, len(a.nodes))
	for _, child := range a.nodes[root].next {
		a.nodes[child].fail = root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for c, v := range a.nodes[u].next {
			f := a.nodes[u].fail
			for f != root {
				if _, ok := a.nodes[f].next[c]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if target, ok := a.nodes[f].next[c]; ok {
				a.nodes[v].fail = target
			} else {
				a.nodes[v].fail = root
			}
			fail := a.nodes[v].fail
			a.nodes[v].out = append(a.nodes[v].out, a.nodes[fail].out...)
			queue = append(queue, v)
		}
	}
}

// Search scans text once and counts every pattern ending at each position.
func (a *automaton) Search(text string) (int, map[string]int) {
	counts := make([]int, len(a.patterns))
	state := int32(root)
	for i := 0; i < len(text); i++ {
		c := text[i]
		for state != root {
			if _, ok := a.nodes[state].next[c]; ok {
				break
			}
			state = a.nodes[state].fail
		}
		if nxt, ok := a.nodes[state].next[c]; ok {
			state = nxt
		}
		for _, p := range a.nodes[state].out {
			counts[p]++
		}
	}

	per := make(map[string]int, len(a.patterns))
	total := 0
	for i, p := range a.patterns {
		per[p] = counts[i]
		total += counts[i]
	}
	return total, per
}

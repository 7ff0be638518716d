package search

import (
	"cmp"
	"slices"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

// rank partitions matches by kind, orders exact matches by descending score
// and fuzzy matches by ascending score (ties keep corpus order), then returns
// up to limit exact results topped up from the fuzzy list.
func rank(items []scored, limit int) []result.Result {
	if limit <= 0 {
		return []result.Result{}
	}

	// Workers finish out of order; restore corpus order so the stable sorts
	// below break score ties by position.
	ordered := slices.Clone(items)
	slices.SortFunc(ordered, func(a, b scored) int { return cmp.Compare(a.index, b.index) })

	var exactItems, fuzzyItems []scored
	for _, it := range ordered {
		if it.record.Kind() == result.Exact {
			exactItems = append(exactItems, it)
		} else {
			fuzzyItems = append(fuzzyItems, it)
		}
	}

	slices.SortStableFunc(exactItems, func(a, b scored) int {
		return cmp.Compare(b.record.Score(), a.record.Score())
	})
	slices.SortStableFunc(fuzzyItems, func(a, b scored) int {
		return cmp.Compare(a.record.Score(), b.record.Score())
	})

	out := make([]result.Result, 0, min(limit, len(items)))
	for _, it := range exactItems {
		if len(out) == limit {
			return out
		}
		out = append(out, result.New(it.id, it.record))
	}
	for _, it := range fuzzyItems {
		if len(out) == limit {
			break
		}
		out = append(out, result.New(it.id, it.record))
	}
	return out
}

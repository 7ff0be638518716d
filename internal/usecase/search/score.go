package search

import (
	"strings"
	"unicode/utf8"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/match/exact"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/match/fuzzy"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

// scorer holds the read-only state shared by every document task of one search.
type scorer struct {
	searcher   exact.Searcher
	keywords   []string
	fuzzy      bool
	fuzzyLimit int
}

// score produces an exact record when any keyword occurs verbatim. Otherwise,
// with fuzzy enabled, every keyword must resolve within fuzzyLimit for a
// fuzzy record; one unresolved keyword excludes the document.
func (s *scorer) score(doc candidate.Document) (result.Record, bool, error) {
	if doc.Text == "" {
		return result.Record{}, false, nil
	}
	if !utf8.ValidString(doc.Text) {
		return result.Record{}, false, domain.ErrMalformedText
	}
	text := strings.ToLower(doc.Text)

	_, perKeyword := s.searcher.Search(text)
	matched := make(map[string]int, len(perKeyword))
	for k, n := range perKeyword {
		if n > 0 {
			matched[k] = n
		}
	}
	if len(matched) > 0 {
		rec, err := result.NewExact(matched)
		if err != nil {
			return result.Record{}, false, err
		}
		return rec, true, nil
	}

	if !s.fuzzy {
		return result.Record{}, false, nil
	}

	distances := make(map[string]int, len(s.keywords))
	for _, k := range s.keywords {
		d, ok := fuzzy.Nearest(text, k, s.fuzzyLimit)
		if !ok {
			return result.Record{}, false, nil
		}
		distances[k] = d
	}
	rec, err := result.NewFuzzy(distances, s.fuzzyLimit)
	if err != nil {
		return result.Record{}, false, err
	}
	return rec, true, nil
}

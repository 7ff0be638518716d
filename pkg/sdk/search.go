package screener

import (
	"context"
	"fmt"
	"time"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/keyword"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

// Search ranks the stored corpus against the keywords: exact matches by
// descending occurrence count, then (if enabled) fuzzy matches by ascending
// edit distance, at most opts.Limit hits in total.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := toRequest(opts)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	out, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromOutcome(out), nil
}

func toRequest(opts SearchOptions) (request.Request, error) {
	algo := algorithm.KMP
	if opts.Algorithm != "" {
		parsed, err := algorithm.Parse(string(opts.Algorithm))
		if err != nil {
			return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		algo = parsed
	}
	return request.New(keyword.New(opts.Keywords), algo, opts.Fuzzy, opts.Limit)
}

func fromOutcome(out result.Outcome) SearchResult {
	hits := make([]Hit, len(out.Results))
	for i := range out.Results {
		r := &out.Results[i]
		rec := r.Record()
		hits[i] = Hit{
			CandidateID: r.DocumentID(),
			Kind:        MatchKind(r.Kind()),
			Score:       r.Score(),
			Matches:     rec.Entries(),
		}
	}
	return SearchResult{
		Hits: hits,
		Stats: SearchStats{
			Elapsed:   out.Stats.Elapsed,
			Documents: out.Stats.Documents,
			Failed:    out.Stats.Failed,
		},
	}
}

package request

import (
	"fmt"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/keyword"
)

// Search parameter limits.
const (
	// MaxKeywords is the maximum number of distinct keywords per search.
	MaxKeywords = 64
	// MaxKeywordLength is the maximum keyword length in bytes.
	MaxKeywordLength = 256
)

// Request is a validated, immutable search request.
type Request struct {
	keywords keyword.Set
	algo     algorithm.Algorithm
	fuzzy    bool
	limit    int
}

// New validates search parameters.
// An empty keyword set or a non-positive limit is accepted and yields an empty result;
// an unknown algorithm or oversized keywords fail fast with domain.ErrInvalidRequest.
func New(keywords keyword.Set, algo algorithm.Algorithm, fuzzy bool, limit int) (Request, error) {
	if !algo.IsValid() {
		return Request{}, fmt.Errorf("%w: unsupported algorithm %q", domain.ErrInvalidRequest, algo)
	}
	if keywords.Len() > MaxKeywords {
		return Request{}, fmt.Errorf("%w: too many keywords (max %d)", domain.ErrInvalidRequest, MaxKeywords)
	}
	for _, k := range keywords.Tokens() {
		if len(k) > MaxKeywordLength {
			return Request{}, fmt.Errorf(
				"%w: keyword too long (max %d bytes)", domain.ErrInvalidRequest, MaxKeywordLength,
			)
		}
	}

	return Request{
		keywords: keywords,
		algo:     algo,
		fuzzy:    fuzzy,
		limit:    limit,
	}, nil
}

// Keywords returns the normalized keyword set.
func (r *Request) Keywords() keyword.Set { return r.keywords }

// Algorithm returns the exact matching algorithm.
func (r *Request) Algorithm() algorithm.Algorithm { return r.algo }

// FuzzyEnabled reports whether the fuzzy fallback is enabled.
func (r *Request) FuzzyEnabled() bool { return r.fuzzy }

// Limit returns the maximum number of ranked results.
func (r *Request) Limit() int { return r.limit }

// IsEmpty reports whether the request can only produce an empty result.
func (r *Request) IsEmpty() bool { return r.keywords.IsEmpty() || r.limit <= 0 }

package search

import (
	"context"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// CorpusReader supplies the corpus snapshot for one search.
// Documents must be ordered consistently (by id); that order breaks ranking ties.
type CorpusReader interface {
	Documents(ctx context.Context) ([]candidate.Document, error)
}

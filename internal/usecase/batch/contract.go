package batch

import (
	"context"

	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// BulkUpserter stores many candidates in one round trip.
type BulkUpserter interface {
	BatchUpsert(ctx context.Context, cands []domcand.Candidate) error
}

// CandidateDeleter deletes a candidate from storage.
type CandidateDeleter interface {
	Delete(ctx context.Context, id int64) error
}

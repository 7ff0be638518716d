package batch

import (
	"context"
	"fmt"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	dombatch "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/batch"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	candidateuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/candidate"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// Item is one candidate of a bulk import, addressed by explicit id.
type Item struct {
	ID    int64
	Input candidateuc.Input
}

// Service handles bulk candidate operations with per-item error reporting.
type Service struct {
	bulk         BulkUpserter
	del          CandidateDeleter
	maxBatchSize int
}

// New creates a batch service.
func New(bulk BulkUpserter, del CandidateDeleter) *Service {
	return &Service{bulk: bulk, del: del, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxSize returns the configured batch size limit.
func (s *Service) MaxSize() int { return s.maxBatchSize }

// Upsert validates every item and stores the valid ones in a single write.
// Invalid items fail individually; a storage failure fails every valid item.
func (s *Service) Upsert(ctx context.Context, items []Item) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.maxBatchSize {
		for i, item := range items {
			results[i] = dombatch.NewError(item.ID, s.oversize())
		}
		return results
	}

	valid := make([]domcand.Candidate, 0, len(items))
	validIdx := make([]int, 0, len(items))
	seen := make(map[int64]int, len(items))

	for i, item := range items {
		if _, dup := seen[item.ID]; dup {
			results[i] = dombatch.NewError(item.ID,
				fmt.Errorf("duplicate id %d in batch: %w", item.ID, domain.ErrInvalidRequest))
			continue
		}
		in := item.Input
		c, err := domcand.New(item.ID, in.ApplicantID, in.Profile, in.Role, in.CVPath, in.CVText)
		if err != nil {
			results[i] = dombatch.NewError(item.ID, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
			continue
		}
		seen[item.ID] = i
		valid = append(valid, c)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		return results
	}

	if err := s.bulk.BatchUpsert(ctx, valid); err != nil {
		for _, i := range validIdx {
			results[i] = dombatch.NewError(items[i].ID, fmt.Errorf("batch upsert: %w", err))
		}
		return results
	}

	for _, i := range validIdx {
		results[i] = dombatch.NewOK(items[i].ID)
	}
	return results
}

// Delete removes candidates by id, one result per id.
func (s *Service) Delete(ctx context.Context, ids []int64) []dombatch.Result {
	results := make([]dombatch.Result, len(ids))

	if len(ids) > s.maxBatchSize {
		for i, id := range ids {
			results[i] = dombatch.NewError(id, s.oversize())
		}
		return results
	}

	for i, id := range ids {
		if err := s.del.Delete(ctx, id); err != nil {
			results[i] = dombatch.NewError(id, fmt.Errorf("delete: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(id)
	}
	return results
}

func (s *Service) oversize() error {
	return fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest)
}

package screener

import (
	"context"
	"fmt"
	"time"

	dombatch "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/batch"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	batchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/batch"
	candidateuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/candidate"
)

// CandidateService manages the stored candidate corpus.
type CandidateService struct {
	svc      candidateUseCase
	batchSvc batchUseCase
	obs      *observer
}

// Create stores c under a freshly allocated id; c.ID is ignored.
func (s *CandidateService) Create(ctx context.Context, c Candidate) (_ Candidate, err error) {
	start := time.Now()
	defer func() { s.obs.observe("candidate.create", start, err) }()

	created, err := s.svc.Create(ctx, toInput(c))
	if err != nil {
		return Candidate{}, fmt.Errorf("create candidate: %w", err)
	}
	return fromInternal(&created), nil
}

// Upsert creates or replaces the candidate with c.ID. Returns true if created.
func (s *CandidateService) Upsert(ctx context.Context, c Candidate) (_ bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("candidate.upsert", start, err) }()

	_, created, err := s.svc.Upsert(ctx, c.ID, toInput(c))
	if err != nil {
		return false, fmt.Errorf("upsert candidate: %w", err)
	}
	return created, nil
}

// Get retrieves a candidate by id.
func (s *CandidateService) Get(ctx context.Context, id int64) (_ Candidate, err error) {
	start := time.Now()
	defer func() { s.obs.observe("candidate.get", start, err) }()

	c, err := s.svc.Get(ctx, id)
	if err != nil {
		return Candidate{}, fmt.Errorf("get candidate: %w", err)
	}
	return fromInternal(&c), nil
}

// List returns up to limit candidates starting at offset, ordered by id.
func (s *CandidateService) List(ctx context.Context, offset, limit int) (_ CandidatePage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("candidate.list", start, err) }()

	page, err := s.svc.List(ctx, offset, limit)
	if err != nil {
		return CandidatePage{}, fmt.Errorf("list candidates: %w", err)
	}
	out := make([]Candidate, len(page.Items))
	for i := range page.Items {
		out[i] = fromInternal(&page.Items[i])
	}
	return CandidatePage{
		Candidates: out,
		Total:      page.Total,
		Offset:     page.Offset,
		Limit:      page.Limit,
	}, nil
}

// Delete removes a candidate by id.
func (s *CandidateService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("candidate.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return nil
}

// BatchUpsert stores candidates under their own ids in one write.
// Each result reports one input candidate, in order.
func (s *CandidateService) BatchUpsert(ctx context.Context, cands []Candidate) []BatchResult {
	start := time.Now()
	items := make([]batchuc.Item, len(cands))
	for i := range cands {
		items[i] = batchuc.Item{ID: cands[i].ID, Input: toInput(cands[i])}
	}
	out := fromBatchResults(s.batchSvc.Upsert(ctx, items))
	s.obs.observe("candidate.batch_upsert", start, firstBatchError(out))
	return out
}

// BatchDelete removes candidates by id.
func (s *CandidateService) BatchDelete(ctx context.Context, ids []int64) []BatchResult {
	start := time.Now()
	out := fromBatchResults(s.batchSvc.Delete(ctx, ids))
	s.obs.observe("candidate.batch_delete", start, firstBatchError(out))
	return out
}

func fromBatchResults(results []dombatch.Result) []BatchResult {
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{
			ID:  r.ID(),
			OK:  r.Status() == dombatch.StatusOK,
			Err: r.Err(),
		}
	}
	return out
}

func firstBatchError(results []BatchResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func toInput(c Candidate) candidateuc.Input {
	return candidateuc.Input{
		ApplicantID: c.ApplicantID,
		Profile: domcand.Profile{
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			DateOfBirth: c.DateOfBirth,
			Address:     c.Address,
			PhoneNumber: c.PhoneNumber,
		},
		Role:   c.Role,
		CVPath: c.CVPath,
		CVText: c.CVText,
	}
}

func fromInternal(c *domcand.Candidate) Candidate {
	p := c.Profile()
	return Candidate{
		ID:          c.ID(),
		ApplicantID: c.ApplicantID(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
		Role:        c.Role(),
		CVPath:      c.CVPath(),
		CVText:      c.CVText(),
	}
}

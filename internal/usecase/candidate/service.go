package candidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// maxCreateAttempts bounds id allocation retries when an allocated id was
// already taken by an explicit upsert.
const maxCreateAttempts = 5

// Input carries the mutable candidate fields.
type Input struct {
	ApplicantID int64
	Profile     domcand.Profile
	Role        string
	CVPath      string
	CVText      string
}

// Page is one window of the candidate list.
type Page struct {
	Items  []domcand.Candidate
	Total  int
	Offset int
	Limit  int
}

// Service handles candidate CRUD operations.
type Service struct {
	repo Repository
}

// New creates a candidate service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a candidate under a freshly allocated id.
func (s *Service) Create(ctx context.Context, in Input) (domcand.Candidate, error) {
	for range maxCreateAttempts {
		id, err := s.repo.NextID(ctx)
		if err != nil {
			return domcand.Candidate{}, fmt.Errorf("create candidate: %w", err)
		}
		c, err := build(id, in)
		if err != nil {
			return domcand.Candidate{}, err
		}
		err = s.repo.Create(ctx, &c)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return domcand.Candidate{}, fmt.Errorf("create candidate: %w", err)
		}
		return c, nil
	}
	return domcand.Candidate{}, fmt.Errorf("create candidate: no free id after %d attempts: %w",
		maxCreateAttempts, domain.ErrAlreadyExists)
}

// Upsert creates or replaces the candidate with the given id. Returns true if created.
func (s *Service) Upsert(ctx context.Context, id int64, in Input) (domcand.Candidate, bool, error) {
	c, err := build(id, in)
	if err != nil {
		return domcand.Candidate{}, false, err
	}
	created, err := s.repo.Upsert(ctx, &c)
	if err != nil {
		return domcand.Candidate{}, false, fmt.Errorf("upsert candidate: %w", err)
	}
	return c, created, nil
}

// Get retrieves a candidate by id.
func (s *Service) Get(ctx context.Context, id int64) (domcand.Candidate, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// List returns a page of candidates ordered by id with the total count.
func (s *Service) List(ctx context.Context, offset, limit int) (Page, error) {
	if offset < 0 {
		return Page{}, fmt.Errorf("offset must not be negative: %w", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		return Page{}, fmt.Errorf("limit must be positive: %w", domain.ErrInvalidRequest)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("count candidates: %w", err)
	}
	items, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return Page{}, fmt.Errorf("list candidates: %w", err)
	}
	return Page{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

// Delete removes a candidate.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return nil
}

func build(id int64, in Input) (domcand.Candidate, error) {
	c, err := domcand.New(id, in.ApplicantID, in.Profile, in.Role, in.CVPath, in.CVText)
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("validate candidate: %w: %w", domain.ErrInvalidRequest, err)
	}
	return c, nil
}

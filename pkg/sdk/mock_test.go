package screener

import (
	"context"

	dombatch "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/batch"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
	batchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/batch"
	candidateuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/candidate"
)

// --- candidateUseCase mock ---

type mockCandidateUC struct {
	createFn func(ctx context.Context, in candidateuc.Input) (domcand.Candidate, error)
	upsertFn func(ctx context.Context, id int64, in candidateuc.Input) (domcand.Candidate, bool, error)
	getFn    func(ctx context.Context, id int64) (domcand.Candidate, error)
	listFn   func(ctx context.Context, offset, limit int) (candidateuc.Page, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockCandidateUC) Create(ctx context.Context, in candidateuc.Input) (domcand.Candidate, error) {
	return m.createFn(ctx, in)
}

func (m *mockCandidateUC) Upsert(
	ctx context.Context, id int64, in candidateuc.Input,
) (domcand.Candidate, bool, error) {
	return m.upsertFn(ctx, id, in)
}

func (m *mockCandidateUC) Get(ctx context.Context, id int64) (domcand.Candidate, error) {
	return m.getFn(ctx, id)
}

func (m *mockCandidateUC) List(ctx context.Context, offset, limit int) (candidateuc.Page, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *mockCandidateUC) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	upsertFn func(ctx context.Context, items []batchuc.Item) []dombatch.Result
	deleteFn func(ctx context.Context, ids []int64) []dombatch.Result
}

func (m *mockBatchUC) Upsert(ctx context.Context, items []batchuc.Item) []dombatch.Result {
	return m.upsertFn(ctx, items)
}

func (m *mockBatchUC) Delete(ctx context.Context, ids []int64) []dombatch.Result {
	return m.deleteFn(ctx, ids)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Outcome, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	return m.searchFn(ctx, req)
}

// --- helpers ---

func testClient(candSvc candidateUseCase, searchSvc searchUseCase) *Client {
	return &Client{
		candSvc:   candSvc,
		searchSvc: searchSvc,
	}
}

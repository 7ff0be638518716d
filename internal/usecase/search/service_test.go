package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/metrics"
)

// --- Mock ---

type mockCorpus struct {
	docs  []candidate.Document
	err   error
	calls int
}

func (m *mockCorpus) Documents(_ context.Context) ([]candidate.Document, error) {
	m.calls++
	return m.docs, m.err
}

// --- Tests ---

func TestService_Search(t *testing.T) {
	corpus := &mockCorpus{docs: sampleCorpus()}
	svc := New(corpus, NewEngine(EngineConfig{Workers: 4}, nil))

	okBefore := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("kmp", "ok"))
	exactBefore := testutil.ToFloat64(metrics.SearchResultsTotal.WithLabelValues("exact"))

	out, err := svc.Search(context.Background(), makeRequest(t, "python", algorithm.KMP, false, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out.Results); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", got)
	}
	if corpus.calls != 1 {
		t.Errorf("corpus loaded %d times, want 1", corpus.calls)
	}

	if d := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("kmp", "ok")) - okBefore; d != 1 {
		t.Errorf("ok counter delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.SearchResultsTotal.WithLabelValues("exact")) - exactBefore; d != 2 {
		t.Errorf("exact results delta = %v, want 2", d)
	}
}

func TestService_EmptyRequestSkipsCorpus(t *testing.T) {
	corpus := &mockCorpus{docs: sampleCorpus()}
	svc := New(corpus, NewEngine(EngineConfig{}, nil))

	for _, req := range []*request.Request{
		makeRequest(t, "", algorithm.BoyerMoore, true, 10),
		makeRequest(t, "python", algorithm.BoyerMoore, true, 0),
	} {
		out, err := svc.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Results) != 0 {
			t.Errorf("expected empty result, got %v", ids(out.Results))
		}
	}
	if corpus.calls != 0 {
		t.Errorf("corpus loaded %d times, want 0", corpus.calls)
	}
}

func TestService_CorpusError(t *testing.T) {
	boom := errors.New("connection refused")
	corpus := &mockCorpus{err: boom}
	svc := New(corpus, NewEngine(EngineConfig{}, nil))

	before := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("ac", "error"))
	_, err := svc.Search(context.Background(), makeRequest(t, "go", algorithm.AhoCorasick, false, 5))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped corpus error, got %v", err)
	}
	if d := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("ac", "error")) - before; d != 1 {
		t.Errorf("error counter delta = %v, want 1", d)
	}
}

func TestService_InvalidAlgorithm(t *testing.T) {
	corpus := &mockCorpus{docs: sampleCorpus()}
	svc := New(corpus, NewEngine(EngineConfig{}, nil))

	var req request.Request
	_, err := svc.Search(context.Background(), &req)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestService_Engine(t *testing.T) {
	e := NewEngine(EngineConfig{Workers: 3}, nil)
	if New(&mockCorpus{}, e).Engine() != e {
		t.Error("Engine() must return the configured orchestrator")
	}
}

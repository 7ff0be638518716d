package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/logger"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/metrics"
)

// Service runs keyword searches against the stored candidate corpus.
type Service struct {
	corpus CorpusReader
	engine *Engine
}

// New creates a search service.
func New(corpus CorpusReader, engine *Engine) *Service {
	return &Service{corpus: corpus, engine: engine}
}

// Engine returns the underlying orchestrator.
func (s *Service) Engine() *Engine { return s.engine }

// Search snapshots the corpus and ranks it against req.
// Requests that can only yield an empty result skip the corpus load.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	algo := string(req.Algorithm())

	if req.IsEmpty() {
		out, err := s.engine.Search(nil, req)
		s.record(algo, out, err)
		return out, err
	}

	docs, err := s.corpus.Documents(ctx)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(algo, "error").Inc()
		return result.Outcome{}, fmt.Errorf("load corpus: %w", err)
	}

	out, err := s.engine.Search(docs, req)
	s.record(algo, out, err)
	if err != nil {
		return result.Outcome{}, err
	}

	logger.FromContext(ctx).Debug("search served",
		zap.String("algorithm", algo),
		zap.Int("keywords", req.Keywords().Len()),
		zap.Int("documents", out.Stats.Documents),
		zap.Int("failed", out.Stats.Failed),
		zap.Int("results", len(out.Results)),
		zap.Duration("elapsed", out.Stats.Elapsed),
	)
	return out, nil
}

func (s *Service) record(algo string, out result.Outcome, err error) {
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(algo, "invalid").Inc()
		return
	}
	metrics.SearchRequestsTotal.WithLabelValues(algo, "ok").Inc()
	metrics.SearchDuration.WithLabelValues(algo).Observe(out.Stats.Elapsed.Seconds())
	metrics.SearchDocumentsScanned.Add(float64(out.Stats.Documents))
	metrics.SearchDocumentErrors.Add(float64(out.Stats.Failed))
	for _, r := range out.Results {
		metrics.SearchResultsTotal.WithLabelValues(string(r.Kind())).Inc()
	}
}

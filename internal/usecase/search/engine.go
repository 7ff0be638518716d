package search

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/match/exact"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
)

// DefaultFuzzyMaxDistance is the edit distance limit used when none is configured.
const DefaultFuzzyMaxDistance = 2

// EngineConfig holds orchestrator tuning.
type EngineConfig struct {
	// Workers is the pool size; <= 0 selects DefaultWorkers().
	Workers int
	// FuzzyMaxDistance bounds the fuzzy fallback; negative is treated as zero.
	FuzzyMaxDistance int
}

// Engine fans a keyword search out across a corpus snapshot and ranks the results.
// It holds no per-search state and is safe for concurrent use; each call must
// receive its own corpus snapshot.
type Engine struct {
	workers    int
	fuzzyLimit int
	logger     *zap.Logger
}

// NewEngine creates an orchestrator. logger may be nil.
func NewEngine(cfg EngineConfig, logger *zap.Logger) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		workers:    workers,
		fuzzyLimit: max(cfg.FuzzyMaxDistance, 0),
		logger:     logger,
	}
}

// Workers returns the pool size.
func (e *Engine) Workers() int { return e.workers }

// FuzzyMaxDistance returns the fuzzy edit distance limit.
func (e *Engine) FuzzyMaxDistance() int { return e.fuzzyLimit }

// Search scores every document and returns at most req.Limit() ranked results.
// Exact matches always precede fuzzy matches. Failing documents are logged and
// dropped; only an invalid request returns an error, before any task runs.
func (e *Engine) Search(docs []candidate.Document, req *request.Request) (result.Outcome, error) {
	start := time.Now()

	m, err := exact.For(req.Algorithm())
	if err != nil {
		return result.Outcome{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	if req.IsEmpty() {
		return result.Outcome{
			Results: []result.Result{},
			Stats:   result.Stats{Elapsed: time.Since(start)},
		}, nil
	}

	keywords := req.Keywords().Tokens()
	sc := &scorer{
		searcher:   m.Compile(keywords),
		keywords:   keywords,
		fuzzy:      req.FuzzyEnabled(),
		fuzzyLimit: e.fuzzyLimit,
	}

	matched, errs := fanOut(docs, e.workers, sc.score)
	for _, err := range errs {
		var de *domain.DocumentError
		if errors.As(err, &de) {
			e.logger.Warn("document dropped from search", zap.Int64("candidate_id", de.DocumentID), zap.Error(de.Err))
			continue
		}
		e.logger.Warn("document dropped from search", zap.Error(err))
	}

	results := rank(matched, req.Limit())
	stats := result.Stats{
		Elapsed:   time.Since(start),
		Documents: len(docs),
		Failed:    len(errs),
	}

	e.logger.Debug("search completed",
		zap.String("algorithm", req.Algorithm().String()),
		zap.Strings("keywords", keywords),
		zap.Bool("fuzzy", req.FuzzyEnabled()),
		zap.Int("documents", stats.Documents),
		zap.Int("failed", stats.Failed),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return result.Outcome{Results: results, Stats: stats}, nil
}

package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/config"
	dbRedis "github.com/adli-arindra/Tubes3-kerjalembut/internal/db/redis"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db/sqlite"
	dombatch "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/batch"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
	candidaterepo "github.com/adli-arindra/Tubes3-kerjalembut/internal/repository/candidate"
	batchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/batch"
	candidateuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/candidate"
	healthuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/health"
	searchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "screener:"

	driverValkey = config.DriverValkey
	driverRedis  = config.DriverRedis
	driverSQLite = config.DriverSQLite
)

// Internal interfaces, swapped for mocks in tests.
type candidateUseCase interface {
	Create(ctx context.Context, in candidateuc.Input) (domcand.Candidate, error)
	Upsert(ctx context.Context, id int64, in candidateuc.Input) (domcand.Candidate, bool, error)
	Get(ctx context.Context, id int64) (domcand.Candidate, error)
	List(ctx context.Context, offset, limit int) (candidateuc.Page, error)
	Delete(ctx context.Context, id int64) error
}

type batchUseCase interface {
	Upsert(ctx context.Context, items []batchuc.Item) []dombatch.Result
	Delete(ctx context.Context, ids []int64) []dombatch.Result
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Outcome, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// corpus is a candidate repository usable by every service.
type corpus interface {
	candidateuc.Repository
	searchuc.CorpusReader
	batchuc.BulkUpserter
}

// Client is the screener SDK entry point.
type Client struct {
	db        pinger
	closeDB   func()
	candSvc   candidateUseCase
	batchSvc  batchUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New opens the configured store and wires the services.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:     defaultKeyPrefix,
		fuzzyDistance: searchuc.DefaultFuzzyMaxDistance,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("screener: storage required (use WithValkey, WithRedis or WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	repo, db, closeDB, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := searchuc.NewEngine(searchuc.EngineConfig{
		Workers:          cfg.workers,
		FuzzyMaxDistance: cfg.fuzzyDistance,
	}, logger)

	return &Client{
		db:        db,
		closeDB:   closeDB,
		candSvc:   candidateuc.New(repo),
		batchSvc:  batchuc.New(repo, repo),
		searchSvc: searchuc.New(repo, engine),
		healthSvc: healthuc.New(db, repo),
		obs:       obs,
	}, nil
}

func openStore(ctx context.Context, cfg *clientConfig) (corpus, pinger, func(), error) {
	switch cfg.driver {
	case driverValkey, driverRedis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, nil, nil, fmt.Errorf("screener: %s address required", cfg.driver)
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("screener: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, nil, fmt.Errorf("screener: database not ready: %w", err)
		}
		return candidaterepo.New(s, cfg.keyPrefix), s, s.Close, nil
	case driverSQLite:
		d, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.path})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("screener: open sqlite: %w", err)
		}
		return candidaterepo.NewSQL(d.SQL()), d, d.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("screener: unknown driver %q", cfg.driver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeDB != nil {
		c.closeDB()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Candidates returns the candidate management service.
func (c *Client) Candidates() *CandidateService {
	return &CandidateService{svc: c.candSvc, batchSvc: c.batchSvc, obs: c.obs}
}

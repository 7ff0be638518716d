package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/config"
	dbRedis "github.com/adli-arindra/Tubes3-kerjalembut/internal/db/redis"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db/sqlite"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
	logpkg "github.com/adli-arindra/Tubes3-kerjalembut/internal/logger"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/metrics"
	candidaterepo "github.com/adli-arindra/Tubes3-kerjalembut/internal/repository/candidate"
	chiTransport "github.com/adli-arindra/Tubes3-kerjalembut/internal/transport/chi"
	batchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/batch"
	candidateuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/candidate"
	healthuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/health"
	searchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/search"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/version"
)

// corpus is what the services need from a candidate repository.
type corpus interface {
	candidateuc.Repository
	searchuc.CorpusReader
	batchuc.BulkUpserter
}

// backend is an opened storage driver.
type backend struct {
	repo   corpus
	pinger healthuc.DBPinger
	close  func()
}

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting screener API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()
	be, err := openBackend(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer be.close()
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()

	engine := searchuc.NewEngine(searchuc.EngineConfig{
		Workers:          cfg.Search.Workers,
		FuzzyMaxDistance: cfg.Search.FuzzyMaxDistance,
	}, logger)
	logger.Info("Search engine ready",
		zap.Int("workers", engine.Workers()),
		zap.Int("fuzzy_max_distance", engine.FuzzyMaxDistance()),
	)

	// Config was validated on load.
	defaultAlgo, _ := algorithm.Parse(cfg.Search.DefaultAlgorithm)

	server := chiTransport.NewServer(
		candidateuc.New(be.repo),
		batchuc.New(be.repo, be.repo).WithMaxBatchSize(cfg.Storage.MaxBatchSize),
		searchuc.New(be.repo, engine),
		healthuc.New(be.pinger, be.repo),
		chiTransport.SearchDefaults{
			Algorithm:    defaultAlgo,
			DefaultLimit: cfg.Search.DefaultLimit,
			MaxLimit:     cfg.Search.MaxLimit,
		},
		logger,
	)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:           cfg.Auth.APIKeys,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openBackend connects the configured driver and waits for it to become ready.
func openBackend(ctx context.Context, cfg *config.Config) (backend, error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return backend{}, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return backend{}, fmt.Errorf("database not ready: %w", err)
		}
		return backend{
			repo:   candidaterepo.New(store, cfg.Storage.KeyPrefix),
			pinger: store,
			close:  store.Close,
		}, nil

	case config.DriverSQLite:
		openCtx, cancel := context.WithTimeout(ctx, readiness)
		defer cancel()
		sqlDB, err := sqlite.Open(openCtx, sqlite.Config{Path: cfg.Database.Path})
		if err != nil {
			return backend{}, fmt.Errorf("open sqlite: %w", err)
		}
		return backend{
			repo:   candidaterepo.NewSQL(sqlDB.SQL()),
			pinger: sqlDB,
			close:  sqlDB.Close,
		}, nil

	default:
		return backend{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

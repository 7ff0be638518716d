package screener

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "valkey", "redis" or "sqlite"
	addrs     []string
	password  string
	path      string
	keyPrefix string

	workers       int
	fuzzyDistance int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores candidates in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores candidates in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores candidates in a SQLite file. Use ":memory:" for a
// throwaway database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.path = path
	})
}

// WithKeyPrefix sets the key namespace for Valkey/Redis. Default: "screener:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithWorkers sets the search worker pool size.
// Default: min(32, GOMAXPROCS*5).
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithFuzzyDistance sets the maximum edit distance of a fuzzy match. Default: 2.
func WithFuzzyDistance(d int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzzyDistance = d
	})
}

// WithLogger enables structured logging for SDK operations and dropped
// documents. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

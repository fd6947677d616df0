package clientrank

import (
	"time"

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

const (
	driverMemory = "memory"
	driverBadger = "badger"
	driverRedis  = "redis"
)

type clientConfig struct {
	driver   string // "memory", "badger" or "redis"
	path     string
	addrs    []string
	password string

	softStart bool

	keyPrefix        string
	recencyCapacity  int
	staleContactDays int
	semanticMinQuery int
	absoluteMaxAUM   float64

	now        func() time.Time
	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithInMemory keeps the recent history in process memory. This is the default.
func WithInMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithBadger persists the recent history in an embedded database at path.
func WithBadger(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverBadger
		c.path = path
	})
}

// WithRedis shares the recent history through Redis. addrs are the initial
// nodes; pass every configured node so a cluster can be discovered from any.
func WithRedis(password string, addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = append([]string(nil), addrs...)
		c.password = password
	})
}

// WithSoftStart keeps the client usable when the configured storage cannot be
// opened or is not ready: the failure is logged and the recent history falls
// back to process memory. Ranking is unaffected; recent-only passes see an
// empty history.
func WithSoftStart() Option {
	return optionFunc(func(c *clientConfig) {
		c.softStart = true
	})
}

// WithKeyPrefix namespaces storage keys. Default: "clientrank:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithRecencyCapacity bounds the recent history. Default: 50.
func WithRecencyCapacity(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.recencyCapacity = n
	})
}

// WithStaleContactDays sets the contact age after which a client needs attention.
// Default: 90.
func WithStaleContactDays(days int) Option {
	return optionFunc(func(c *clientConfig) {
		c.staleContactDays = days
	})
}

// WithSemanticMinQuery sets the trimmed query length that enables semantic ranking.
// Default: 3.
func WithSemanticMinQuery(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticMinQuery = n
	})
}

// WithAbsoluteMaxAUM sets the AUM slider ceiling. A maximum at or above it is
// unbounded. Default: 100,000,000.
func WithAbsoluteMaxAUM(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.absoluteMaxAUM = v
	})
}

// WithClock overrides the time source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
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

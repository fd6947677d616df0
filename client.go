package clientrank

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank/internal/db"
	dbBadger "github.com/kailas-cloud/clientrank/internal/db/badger"
	dbRedis "github.com/kailas-cloud/clientrank/internal/db/redis"
	"github.com/kailas-cloud/clientrank/internal/domain"
	reporecency "github.com/kailas-cloud/clientrank/internal/repository/recency"
	healthuc "github.com/kailas-cloud/clientrank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
	recencyuc "github.com/kailas-cloud/clientrank/internal/usecase/recency"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type rankingUseCase interface {
	Rank(ctx context.Context, in rankinguc.Input) rankinguc.Result
	DefaultFilters() Filters
	CountActiveFilters(opts Filters) int
	TouchRecent(ctx context.Context, clientID string) error
	Recent(ctx context.Context) Recent
	ClearRecent(ctx context.Context) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the clientrank SDK entry point. Safe for concurrent use.
type Client struct {
	store      db.Store
	rankingSvc rankingUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client. The provided context is used for the initial
// readiness check of the storage backend.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverMemory}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		if !cfg.softStart {
			return nil, err
		}
		obs.storageFallback(cfg.driver, err)
		store, err = openStore(ctx, &clientConfig{driver: driverMemory, logger: cfg.logger})
		if err != nil {
			return nil, err
		}
	}
	return wireClient(store, cfg, obs), nil
}

// openStore creates the configured store and waits for it to become ready.
func openStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("clientrank: storage not ready: %w", err)
	}
	return store, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		s, err := dbBadger.NewStore(dbBadger.Config{InMemory: true, Logger: cfg.logger})
		if err != nil {
			return nil, fmt.Errorf("clientrank: create memory store: %w", err)
		}
		return s, nil
	case driverBadger:
		s, err := dbBadger.NewStore(dbBadger.Config{Path: cfg.path, Logger: cfg.logger})
		if err != nil {
			return nil, fmt.Errorf("clientrank: create badger store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("clientrank: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("clientrank: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.keyPrefix
	if prefix == "" {
		prefix = domain.KeyPrefix
	}

	repo := reporecency.New(store, prefix+"recent_clients")
	recencySvc := recencyuc.New(repo, cfg.recencyCapacity, cfg.now, nil, logger)
	rankingSvc := rankinguc.New(rankinguc.Config{
		AbsoluteMaxAUM:   cfg.absoluteMaxAUM,
		SemanticMinQuery: cfg.semanticMinQuery,
		StaleContactDays: cfg.staleContactDays,
	}, recencySvc, nil, nil, cfg.now, logger)

	return &Client{
		store:      store,
		rankingSvc: rankingSvc,
		healthSvc:  healthuc.New(store),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks storage connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the storage backend.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Rank filters and orders clients. It never fails: malformed records are
// skipped and an unavailable recent history reads as empty.
func (c *Client) Rank(ctx context.Context, in RankInput) RankResult {
	start := time.Now()
	res := c.rankingSvc.Rank(ctx, in)
	c.obs.rank(in, res, time.Since(start))
	return res
}

// Ranking starts a fluent ranking request.
func (c *Client) Ranking() *RankBuilder {
	return &RankBuilder{client: c}
}

// DefaultFilters returns the filter defaults: full AUM range, every tier and
// risk profile, pending filter off.
func (c *Client) DefaultFilters() Filters {
	return c.rankingSvc.DefaultFilters()
}

// CountActiveFilters counts filter dimensions that differ from the defaults.
func (c *Client) CountActiveFilters(f Filters) int {
	return c.rankingSvc.CountActiveFilters(f)
}

// TouchRecent records that a client was opened. Storage failures are absorbed;
// only an empty client id is reported.
func (c *Client) TouchRecent(ctx context.Context, clientID string) error {
	err := c.rankingSvc.TouchRecent(ctx, clientID)
	c.obs.touch(clientID, err)
	if err != nil {
		return fmt.Errorf("touch recent: %w", err)
	}
	return nil
}

// Recent returns the recently opened clients. Empty when storage is unavailable.
func (c *Client) Recent(ctx context.Context) Recent {
	snap := c.rankingSvc.Recent(ctx)
	c.obs.recent(len(snap))
	return snap
}

// ClearRecent forgets every recently opened client. Storage failures are
// returned, wrapping ErrStorageUnavailable.
func (c *Client) ClearRecent(ctx context.Context) error {
	if err := c.rankingSvc.ClearRecent(ctx); err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	c.obs.recent(0)
	return nil
}

package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank/internal/domain"
	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
	"github.com/kailas-cloud/clientrank/internal/domain/filter"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	"github.com/kailas-cloud/clientrank/internal/domain/semantic"
	"github.com/kailas-cloud/clientrank/internal/usecase/attention"
)

// Config tunes the engine. Zero values select the package defaults.
type Config struct {
	AbsoluteMaxAUM   float64
	SemanticMinQuery int
	StaleContactDays int
}

// Service is the ranking engine. Safe for concurrent use.
type Service struct {
	cfg       Config
	defaults  filter.Options
	recency   RecencyStore
	attention AttentionClassifier
	recorder  Recorder
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a ranking Service. recency, classifier and recorder can be nil:
// without a recency store every snapshot is empty, without a classifier the
// default attention rules apply.
func New(
	cfg Config, recency RecencyStore, classifier AttentionClassifier,
	recorder Recorder, now func() time.Time, logger *zap.Logger,
) *Service {
	if cfg.AbsoluteMaxAUM <= 0 {
		cfg.AbsoluteMaxAUM = filter.AbsoluteMaxAUM
	}
	if cfg.SemanticMinQuery <= 0 {
		cfg.SemanticMinQuery = semantic.MinQueryLength
	}
	if classifier == nil {
		classifier = attention.New(cfg.StaleContactDays)
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		defaults:  filter.Default(cfg.AbsoluteMaxAUM),
		recency:   recency,
		attention: classifier,
		recorder:  recorder,
		now:       now,
		logger:    logger,
	}
}

// DefaultFilters returns the practice-wide filter defaults.
func (s *Service) DefaultFilters() filter.Options { return s.defaults }

// CountActiveFilters counts filter dimensions that deviate from the defaults.
// Zero-value options count as the defaults.
func (s *Service) CountActiveFilters(opts filter.Options) int {
	if opts.IsZero() {
		return 0
	}
	return opts.ActiveCount(s.defaults)
}

// Rank filters and orders the clients. It never fails: malformed records are
// skipped and an unreadable recency store reads as empty.
func (s *Service) Rank(ctx context.Context, in Input) Result {
	start := time.Now()
	now := in.Now
	if now.IsZero() {
		now = s.now()
	}
	opts := s.defaults
	if in.Filters != nil && !in.Filters.IsZero() {
		opts = *in.Filters
	}

	semIdx := semantic.NewIndex(in.SemanticResults)
	semanticMode := semIdx.Active(in.Query, s.cfg.SemanticMinQuery)

	recent := domrecency.Snapshot{}
	if in.RecentOnly {
		recent = s.Recent(ctx)
	}

	signals := feed.NewIndex(in.Tasks, in.Appointments, in.Alerts, in.Health)
	mc := newMatchContext(opts, s.cfg.AbsoluteMaxAUM, in.RecentOnly, recent, in.Query, semIdx, semanticMode)

	seen := make(map[string]struct{}, len(in.Clients))
	candidates := make([]*candidate, 0, len(in.Clients))
	skippedClients := 0
	for i := range in.Clients {
		c := &in.Clients[i]
		if !c.HasIdentity() {
			skippedClients++
			continue
		}
		if _, dup := seen[c.ID]; dup {
			skippedClients++
			continue
		}
		seen[c.ID] = struct{}{}

		if !mc.matches(c) {
			continue
		}
		candidates = append(candidates, s.annotate(c, signals.For(c.ID), semIdx, recent, now))
	}

	cp := comparator{semanticMode: semanticMode, recentOnly: in.RecentOnly}
	sort.Slice(candidates, func(i, j int) bool {
		return cp.compare(candidates[i], candidates[j]) < 0
	})

	items := make([]RankedClient, len(candidates))
	for i, c := range candidates {
		items[i] = c.item
	}

	mode := PassMode(semanticMode, in.RecentOnly)
	if s.recorder != nil {
		s.recorder.ObservePass(mode, time.Since(start), len(items))
		s.recorder.ObserveSkipped("client", skippedClients)
		s.recorder.ObserveSkipped("feed", signals.Skipped())
	}
	s.logger.Debug("Ranking pass completed",
		zap.String("mode", mode),
		zap.Int("clients", len(in.Clients)),
		zap.Int("returned", len(items)),
		zap.Int("skipped_clients", skippedClients),
		zap.Int("skipped_feed_records", signals.Skipped()),
		zap.Duration("duration", time.Since(start)),
	)

	return Result{
		Items:         items,
		SemanticMode:  semanticMode,
		ActiveFilters: s.CountActiveFilters(opts),
		Skipped:       skippedClients + signals.Skipped(),
	}
}

// TouchRecent records that a client was opened. Storage failures are logged and
// swallowed; only an empty client id is reported.
func (s *Service) TouchRecent(ctx context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return domain.ErrInvalidClientID
	}
	if s.recency == nil {
		return nil
	}
	if err := s.recency.Touch(ctx, clientID); err != nil {
		if errors.Is(err, domain.ErrInvalidClientID) {
			return err
		}
		s.logger.Debug("Recent touch dropped",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
	}
	return nil
}

// Recent returns the current recency snapshot, empty when unavailable.
func (s *Service) Recent(ctx context.Context) domrecency.Snapshot {
	if s.recency == nil {
		return domrecency.Snapshot{}
	}
	snap := s.recency.Snapshot(ctx)
	if snap == nil {
		return domrecency.Snapshot{}
	}
	return snap
}

func (s *Service) annotate(
	c *client.Client, sig feed.Signals, semIdx semantic.Index, recent domrecency.Snapshot, now time.Time,
) *candidate {
	verdict := s.attention.Classify(c, sig, now)
	cand := &candidate{
		item: RankedClient{
			Client:         *c,
			NeedsAttention: verdict.NeedsAttention,
			Incomplete:     c.IsIncomplete(),
			Status:         s.attention.Describe(c, sig, now),
			HealthScore:    verdict.HealthScore,
			AccessedAt:     recent.AccessedAt(c.ID),
		},
	}
	if m, ok := semIdx.Lookup(c.ID); ok {
		cand.match, cand.matched = m, true
		cand.item.SemanticMatch = &m
	}
	return cand
}

// PassMode names a ranking pass for logs and metrics.
func PassMode(semanticMode, recentOnly bool) string {
	switch {
	case semanticMode && recentOnly:
		return ModeSemanticRecent
	case semanticMode:
		return ModeSemantic
	case recentOnly:
		return ModeRecent
	default:
		return ModeDefault
	}
}

// ClearRecent empties the recent history. Unlike TouchRecent it reports
// storage failures.
func (s *Service) ClearRecent(ctx context.Context) error {
	if s.recency == nil {
		return nil
	}
	if err := s.recency.Clear(ctx); err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	return nil
}

package clientrank

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
)

// Touch outcomes, used as the metrics label.
const (
	touchOK      = "ok"
	touchInvalid = "invalid_id"
	touchFailed  = "error"
)

// sdkMetrics are the per-client collectors enabled by WithPrometheus.
type sdkMetrics struct {
	passes   *prometheus.CounterVec
	returned *prometheus.HistogramVec
	skipped  prometheus.Counter
	touches  *prometheus.CounterVec
	recent   prometheus.Gauge
	fallback prometheus.Gauge
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientrank",
			Subsystem: "sdk",
			Name:      "rank_passes_total",
			Help:      "Ranking passes run through the SDK by mode.",
		}, []string{"mode"}),
		returned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clientrank",
			Subsystem: "sdk",
			Name:      "rank_returned_clients",
			Help:      "Clients returned per ranking pass by mode.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"mode"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clientrank",
			Subsystem: "sdk",
			Name:      "skipped_records_total",
			Help:      "Client and feed records dropped by ranking passes.",
		}),
		touches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientrank",
			Subsystem: "sdk",
			Name:      "recent_touches_total",
			Help:      "TouchRecent calls by outcome.",
		}, []string{"result"}),
		recent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clientrank",
			Subsystem: "sdk",
			Name:      "recent_clients",
			Help:      "Size of the recent history at the last read.",
		}),
		fallback: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clientrank",
			Subsystem: "sdk",
			Name:      "storage_fallback",
			Help:      "1 when the configured storage was unavailable and history is kept in memory.",
		}),
	}
	for _, err := range []error{
		registerOrReuse(reg, &m.passes),
		registerOrReuse(reg, &m.returned),
		registerOrReuse(reg, &m.skipped),
		registerOrReuse(reg, &m.touches),
		registerOrReuse(reg, &m.recent),
		registerOrReuse(reg, &m.fallback),
	} {
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerOrReuse registers c, or points it at the collector already registered
// under the same descriptor so several clients can share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("clientrank: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("clientrank: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer reports SDK activity. A nil observer, logger or metrics set is a no-op.
type observer struct {
	logger  *zap.Logger
	metrics *sdkMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) rank(in RankInput, res RankResult, took time.Duration) {
	if o == nil {
		return
	}
	mode := rankinguc.PassMode(res.SemanticMode, in.RecentOnly)
	if o.metrics != nil {
		o.metrics.passes.WithLabelValues(mode).Inc()
		o.metrics.returned.WithLabelValues(mode).Observe(float64(len(res.Items)))
		if res.Skipped > 0 {
			o.metrics.skipped.Add(float64(res.Skipped))
		}
	}
	if o.logger != nil {
		o.logger.Debug("Ranked",
			zap.String("mode", mode),
			zap.Int("clients", len(in.Clients)),
			zap.Int("returned", len(res.Items)),
			zap.Int("skipped", res.Skipped),
			zap.Int("active_filters", res.ActiveFilters),
			zap.Duration("duration", took),
		)
	}
}

func (o *observer) touch(clientID string, err error) {
	if o == nil {
		return
	}
	result := touchOK
	switch {
	case errors.Is(err, ErrInvalidClientID):
		result = touchInvalid
	case err != nil:
		result = touchFailed
	}
	if o.metrics != nil {
		o.metrics.touches.WithLabelValues(result).Inc()
	}
	if o.logger != nil && err != nil {
		o.logger.Warn("TouchRecent rejected",
			zap.String("client_id", clientID),
			zap.String("result", result),
			zap.Error(err),
		)
	}
}

func (o *observer) recent(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.recent.Set(float64(n))
}

func (o *observer) storageFallback(driver string, err error) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.fallback.Set(1)
	}
	if o.logger != nil {
		o.logger.Warn("Storage unavailable, recent history kept in memory",
			zap.String("driver", driver),
			zap.Error(err),
		)
	}
}

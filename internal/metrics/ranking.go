package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ranking and recency Prometheus metrics.
var (
	RankPassesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientrank",
			Name:      "rank_passes_total",
			Help:      "Total number of ranking passes",
		},
		[]string{"mode"}, // default / semantic / recent / semantic_recent
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clientrank",
			Name:      "rank_duration_seconds",
			Help:      "Ranking pass duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	RankedClients = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clientrank",
			Name:      "ranked_clients",
			Help:      "Number of clients returned by a ranking pass",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	SkippedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientrank",
			Name:      "skipped_records_total",
			Help:      "Input records dropped for failing shape checks",
		},
		[]string{"kind"}, // client / feed
	)

	RecencyStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientrank",
			Name:      "recency_store_errors_total",
			Help:      "Recency store failures absorbed as soft errors",
		},
		[]string{"op"}, // load / save / corrupt
	)

	RecencyTouchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clientrank",
			Name:      "recency_touches_total",
			Help:      "Total number of client-opened events recorded",
		},
	)
)

var registered bool

// Register registers HTTP, ranking and recency metrics with the default
// registry. Called once from main; repeated calls are no-ops.
func Register() {
	if registered {
		return
	}
	registerHTTPMetrics()
	prometheus.MustRegister(RankPassesTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RankedClients)
	prometheus.MustRegister(SkippedRecordsTotal)
	prometheus.MustRegister(RecencyStoreErrorsTotal)
	prometheus.MustRegister(RecencyTouchesTotal)
	registered = true
}

// RankingRecorder reports ranking passes to the package-level collectors.
type RankingRecorder struct{}

// ObservePass records one completed ranking pass.
func (RankingRecorder) ObservePass(mode string, took time.Duration, returned int) {
	RankPassesTotal.WithLabelValues(mode).Inc()
	RankDuration.Observe(took.Seconds())
	RankedClients.Observe(float64(returned))
}

// ObserveSkipped records input records dropped during a pass.
func (RankingRecorder) ObserveSkipped(kind string, n int) {
	if n > 0 {
		SkippedRecordsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecencyRecorder reports recency store events to the package-level collectors.
type RecencyRecorder struct{}

// ObserveStoreError counts a storage failure that was absorbed.
func (RecencyRecorder) ObserveStoreError(op string) {
	RecencyStoreErrorsTotal.WithLabelValues(op).Inc()
}

// ObserveTouch counts one recorded client-opened event.
func (RecencyRecorder) ObserveTouch() {
	RecencyTouchesTotal.Inc()
}

package ranking

import (
	"context"
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	"github.com/kailas-cloud/clientrank/internal/usecase/attention"
)

// RecencyStore is the bounded recently viewed map.
type RecencyStore interface {
	Snapshot(ctx context.Context) domrecency.Snapshot
	Touch(ctx context.Context, clientID string) error
	Clear(ctx context.Context) error
}

// AttentionClassifier flags clients and derives their display status.
type AttentionClassifier interface {
	Classify(c *client.Client, sig feed.Signals, now time.Time) attention.Verdict
	Describe(c *client.Client, sig feed.Signals, now time.Time) attention.Status
}

// Recorder receives per-pass observations for metrics.
type Recorder interface {
	ObservePass(mode string, took time.Duration, returned int)
	ObserveSkipped(kind string, n int)
}

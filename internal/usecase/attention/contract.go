package attention

import (
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
)

// Classifier decides whether a client needs follow-up.
type Classifier interface {
	Classify(c *client.Client, sig feed.Signals, now time.Time) Verdict
}

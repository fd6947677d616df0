package ranking

import (
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
	"github.com/kailas-cloud/clientrank/internal/domain/filter"
	"github.com/kailas-cloud/clientrank/internal/domain/semantic"
	"github.com/kailas-cloud/clientrank/internal/usecase/attention"
)

// Pass modes, used as the metrics label.
const (
	ModeDefault        = "default"
	ModeSemantic       = "semantic"
	ModeRecent         = "recent"
	ModeSemanticRecent = "semantic_recent"
)

// Input is everything one ranking pass reads besides the recency snapshot.
type Input struct {
	Clients         []client.Client
	Tasks           []feed.Task
	Appointments    []feed.Appointment
	Alerts          []feed.Alert
	Health          []feed.Health
	SemanticResults []semantic.Result
	Query           string
	// Filters nil or zero-value means practice defaults.
	Filters    *filter.Options
	RecentOnly bool
	// Now zero means the engine clock.
	Now time.Time
}

// RankedClient is a client annotated for display. Ephemeral.
type RankedClient struct {
	client.Client
	SemanticMatch  *semantic.Match  `json:"semanticMatch,omitempty"`
	NeedsAttention bool             `json:"needsAttention"`
	Incomplete     bool             `json:"incomplete"`
	Status         attention.Status `json:"status"`
	HealthScore    *float64         `json:"healthScore,omitempty"`
	AccessedAt     int64            `json:"accessedAt,omitempty"`
}

// Result is the outcome of a ranking pass.
type Result struct {
	Items         []RankedClient
	SemanticMode  bool
	ActiveFilters int
	// Skipped counts dropped client and feed records.
	Skipped int
}

package clientrank

import (
	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
	"github.com/kailas-cloud/clientrank/internal/domain/filter"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	"github.com/kailas-cloud/clientrank/internal/domain/semantic"
	"github.com/kailas-cloud/clientrank/internal/usecase/attention"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
)

// Input records.
type (
	// Record is one client as served by the backend.
	Record = client.Client
	// AttentionReason explains a backend attention flag.
	AttentionReason = client.AttentionReason
	// Task is an advisor task linked to a client.
	Task = feed.Task
	// Appointment is a calendar entry linked to a client.
	Appointment = feed.Appointment
	// Alert is a portfolio alert linked to a client.
	Alert = feed.Alert
	// Health is an externally computed relationship-health record.
	Health = feed.Health
	// SemanticResult is one hit from the semantic search service.
	SemanticResult = semantic.Result
)

// Output records.
type (
	// RankedClient is a client annotated for display.
	RankedClient = rankinguc.RankedClient
	// SemanticMatch is the semantic hit attached to a ranked client.
	SemanticMatch = semantic.Match
	// Status is the display label of a client card.
	Status = attention.Status
	// Recent maps client ids to the epoch millis of their last opening.
	Recent = domrecency.Snapshot
)

// Filters is a validated filter configuration. Build one with NewFilters or
// Client.DefaultFilters. The zero value means the defaults.
type Filters = filter.Options

// Tier is a client segmentation band.
type Tier = client.Tier

// Tiers.
const (
	Platinum = client.Platinum
	Gold     = client.Gold
	Silver   = client.Silver
)

// RiskProfile is a declared risk appetite.
type RiskProfile = client.RiskProfile

// Risk profiles.
const (
	Conservative = client.Conservative
	Moderate     = client.Moderate
	Aggressive   = client.Aggressive
)

// Display statuses.
const (
	StatusMeetingToday = attention.StatusMeetingToday
	StatusComplaint    = attention.StatusComplaint
	StatusOverdueTask  = attention.StatusOverdueTask
	StatusStaleContact = attention.StatusStaleContact
	StatusOnTrack      = attention.StatusOnTrack
)

// NewFilters validates and builds Filters.
func NewFilters(minAUM, maxAUM float64, tiers []Tier, risks []RiskProfile, pendingOnly bool) (Filters, error) {
	return filter.New(minAUM, maxAUM, tiers, risks, pendingOnly)
}

// RankInput is everything one ranking pass reads besides the recent history.
type RankInput = rankinguc.Input

// RankResult is the outcome of a ranking pass.
type RankResult = rankinguc.Result

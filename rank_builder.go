package clientrank

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain/filter"
)

// RankBuilder is a fluent builder for a ranking pass.
type RankBuilder struct {
	client *Client
	in     RankInput

	// Filter dimensions; nil leaves the default in place.
	minAUM      *float64
	maxAUM      *float64
	tiers       []Tier
	risks       []RiskProfile
	pendingOnly bool
	filters     *Filters
}

// Clients sets the client records to rank.
func (b *RankBuilder) Clients(c ...Record) *RankBuilder {
	b.in.Clients = append(b.in.Clients, c...)
	return b
}

// Tasks sets the task feed.
func (b *RankBuilder) Tasks(t ...Task) *RankBuilder {
	b.in.Tasks = append(b.in.Tasks, t...)
	return b
}

// Appointments sets the appointment feed.
func (b *RankBuilder) Appointments(a ...Appointment) *RankBuilder {
	b.in.Appointments = append(b.in.Appointments, a...)
	return b
}

// Alerts sets the portfolio alert feed.
func (b *RankBuilder) Alerts(a ...Alert) *RankBuilder {
	b.in.Alerts = append(b.in.Alerts, a...)
	return b
}

// Health sets relationship-health records. Any record switches the client
// to health-based attention.
func (b *RankBuilder) Health(h ...Health) *RankBuilder {
	b.in.Health = append(b.in.Health, h...)
	return b
}

// Semantic sets the hits returned by the semantic search service for Query.
func (b *RankBuilder) Semantic(r ...SemanticResult) *RankBuilder {
	b.in.SemanticResults = append(b.in.SemanticResults, r...)
	return b
}

// Query sets the free-text search.
func (b *RankBuilder) Query(q string) *RankBuilder {
	b.in.Query = q
	return b
}

// Filters replaces all filter dimensions with a prebuilt configuration.
func (b *RankBuilder) Filters(f Filters) *RankBuilder {
	b.filters = &f
	return b
}

// MinAUM sets the inclusive AUM lower bound.
func (b *RankBuilder) MinAUM(v float64) *RankBuilder {
	b.minAUM = &v
	return b
}

// MaxAUM sets the inclusive AUM upper bound.
func (b *RankBuilder) MaxAUM(v float64) *RankBuilder {
	b.maxAUM = &v
	return b
}

// Tiers restricts the list to the given tiers. An empty call fails validation in Do.
func (b *RankBuilder) Tiers(t ...Tier) *RankBuilder {
	b.tiers = append([]Tier{}, t...)
	return b
}

// RiskProfiles restricts the list to the given risk profiles.
func (b *RankBuilder) RiskProfiles(r ...RiskProfile) *RankBuilder {
	b.risks = append([]RiskProfile{}, r...)
	return b
}

// PendingOnly keeps only clients with an incomplete profile.
func (b *RankBuilder) PendingOnly() *RankBuilder {
	b.pendingOnly = true
	return b
}

// RecentOnly keeps only recently opened clients, newest first.
func (b *RankBuilder) RecentOnly() *RankBuilder {
	b.in.RecentOnly = true
	return b
}

// At evaluates time-dependent predicates at t instead of the client clock.
func (b *RankBuilder) At(t time.Time) *RankBuilder {
	b.in.Now = t
	return b
}

// Do validates the filters and runs the ranking pass.
func (b *RankBuilder) Do(ctx context.Context) (RankResult, error) {
	opts, err := b.buildFilters()
	if err != nil {
		return RankResult{}, err
	}
	in := b.in
	in.Filters = opts
	return b.client.Rank(ctx, in), nil
}

func (b *RankBuilder) buildFilters() (*Filters, error) {
	touched := b.minAUM != nil || b.maxAUM != nil || b.tiers != nil || b.risks != nil || b.pendingOnly
	if !touched {
		return b.filters, nil
	}

	base := b.client.DefaultFilters()
	if b.filters != nil && !b.filters.IsZero() {
		base = *b.filters
	}
	minAUM, maxAUM := base.MinAUM(), base.MaxAUM()
	if b.minAUM != nil {
		minAUM = *b.minAUM
	}
	if b.maxAUM != nil {
		maxAUM = *b.maxAUM
	}
	tiers := base.Tiers()
	if b.tiers != nil {
		tiers = b.tiers
	}
	risks := base.RiskProfiles()
	if b.risks != nil {
		risks = b.risks
	}

	opts, err := filter.New(minAUM, maxAUM, tiers, risks, b.pendingOnly || base.PendingOnly())
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	return &opts, nil
}

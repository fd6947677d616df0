package ranking

import (
	"strings"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/filter"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	"github.com/kailas-cloud/clientrank/internal/domain/semantic"
)

// matchContext is shared by every predicate in one pass.
type matchContext struct {
	options        filter.Options
	absoluteMaxAUM float64
	recentOnly     bool
	recent         domrecency.Snapshot
	query          string // lowercased raw query, empty when blank
	semantic       semantic.Index
	semanticMode   bool
}

func newMatchContext(
	opts filter.Options, absoluteMax float64,
	recentOnly bool, recent domrecency.Snapshot,
	query string, idx semantic.Index, semanticMode bool,
) *matchContext {
	q := ""
	if strings.TrimSpace(query) != "" {
		q = strings.ToLower(query)
	}
	return &matchContext{
		options:        opts,
		absoluteMaxAUM: absoluteMax,
		recentOnly:     recentOnly,
		recent:         recent,
		query:          q,
		semantic:       idx,
		semanticMode:   semanticMode,
	}
}

// matches applies every predicate conjunctively.
func (mc *matchContext) matches(c *client.Client) bool {
	return mc.tierMatches(c) &&
		mc.riskMatches(c) &&
		mc.aumMatches(c) &&
		mc.pendingMatches(c) &&
		mc.recentMatches(c) &&
		mc.searchMatches(c)
}

// tierMatches passes clients without a known tier.
func (mc *matchContext) tierMatches(c *client.Client) bool {
	t := client.ParseTier(string(c.Tier))
	return t == client.TierUnknown || mc.options.IncludesTier(t)
}

// riskMatches passes clients without a known risk profile.
func (mc *matchContext) riskMatches(c *client.Client) bool {
	r := client.ParseRiskProfile(string(c.RiskProfile))
	return r == client.RiskUnspecified || mc.options.IncludesRiskProfile(r)
}

// aumMatches treats a maximum at the slider ceiling as unbounded.
func (mc *matchContext) aumMatches(c *client.Client) bool {
	if c.AUMValue < mc.options.MinAUM() {
		return false
	}
	return c.AUMValue <= mc.options.MaxAUM() || mc.options.Unbounded(mc.absoluteMaxAUM)
}

func (mc *matchContext) pendingMatches(c *client.Client) bool {
	return !mc.options.PendingOnly() || c.IsIncomplete()
}

func (mc *matchContext) recentMatches(c *client.Client) bool {
	return !mc.recentOnly || mc.recent.Contains(c.ID)
}

func (mc *matchContext) searchMatches(c *client.Client) bool {
	if mc.semanticMode {
		_, ok := mc.semantic.Lookup(c.ID)
		return ok
	}
	if mc.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.FullName), mc.query) ||
		strings.Contains(strings.ToLower(c.Email), mc.query) ||
		strings.Contains(c.Phone, mc.query)
}

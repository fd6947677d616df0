package filter

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/clientrank/internal/domain"
	"github.com/kailas-cloud/clientrank/internal/domain/client"
)

// AbsoluteMaxAUM is the nominal top of the AUM range slider. A maximum at or above
// it means "no upper bound".
const AbsoluteMaxAUM = 100_000_000

// Options is a validated client-list filter configuration (immutable value object).
type Options struct {
	minAUM      float64
	maxAUM      float64
	tiers       map[client.Tier]struct{}
	risks       map[client.RiskProfile]struct{}
	pendingOnly bool
}

// Default returns practice-wide defaults: full AUM range, every tier and risk
// profile, pending filter off. A non-positive absoluteMax falls back to AbsoluteMaxAUM.
func Default(absoluteMax float64) Options {
	if absoluteMax <= 0 {
		absoluteMax = AbsoluteMaxAUM
	}
	return Options{
		minAUM: 0,
		maxAUM: absoluteMax,
		tiers:  tierSet(client.AllTiers()),
		risks:  riskSet(client.AllRiskProfiles()),
	}
}

// New validates and creates Options.
// minAUM must be non-negative and not above maxAUM; tiers and risks must be
// non-empty subsets of the selectable values.
func New(
	minAUM, maxAUM float64,
	tiers []client.Tier, risks []client.RiskProfile,
	pendingOnly bool,
) (Options, error) {
	if math.IsNaN(minAUM) || math.IsNaN(maxAUM) {
		return Options{}, fmt.Errorf("%w: aum bounds must be numbers", domain.ErrInvalidFilter)
	}
	if minAUM < 0 {
		return Options{}, fmt.Errorf("%w: min aum must be non-negative, got %v", domain.ErrInvalidFilter, minAUM)
	}
	if minAUM > maxAUM {
		return Options{}, fmt.Errorf("%w: min aum %v exceeds max aum %v", domain.ErrInvalidFilter, minAUM, maxAUM)
	}
	if len(tiers) == 0 {
		return Options{}, fmt.Errorf("%w: at least one tier is required", domain.ErrInvalidFilter)
	}
	if len(risks) == 0 {
		return Options{}, fmt.Errorf("%w: at least one risk profile is required", domain.ErrInvalidFilter)
	}

	parsedTiers := make([]client.Tier, 0, len(tiers))
	for _, t := range tiers {
		p := client.ParseTier(string(t))
		if p == client.TierUnknown {
			return Options{}, fmt.Errorf("%w: unknown tier %q", domain.ErrInvalidFilter, t)
		}
		parsedTiers = append(parsedTiers, p)
	}
	parsedRisks := make([]client.RiskProfile, 0, len(risks))
	for _, r := range risks {
		p := client.ParseRiskProfile(string(r))
		if p == client.RiskUnspecified {
			return Options{}, fmt.Errorf("%w: unknown risk profile %q", domain.ErrInvalidFilter, r)
		}
		parsedRisks = append(parsedRisks, p)
	}

	return Options{
		minAUM:      minAUM,
		maxAUM:      maxAUM,
		tiers:       tierSet(parsedTiers),
		risks:       riskSet(parsedRisks),
		pendingOnly: pendingOnly,
	}, nil
}

// IsZero reports whether o is the zero value rather than a configuration built
// by New or Default. Callers treat it as "use the defaults".
func (o Options) IsZero() bool { return o.tiers == nil && o.risks == nil }

// MinAUM returns the inclusive lower AUM bound.
func (o Options) MinAUM() float64 { return o.minAUM }

// MaxAUM returns the inclusive upper AUM bound.
func (o Options) MaxAUM() float64 { return o.maxAUM }

// PendingOnly reports whether only incomplete profiles pass.
func (o Options) PendingOnly() bool { return o.pendingOnly }

// Tiers returns the selected tiers in display order.
func (o Options) Tiers() []client.Tier {
	out := make([]client.Tier, 0, len(o.tiers))
	for _, t := range client.AllTiers() {
		if _, ok := o.tiers[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// RiskProfiles returns the selected risk profiles in display order.
func (o Options) RiskProfiles() []client.RiskProfile {
	out := make([]client.RiskProfile, 0, len(o.risks))
	for _, r := range client.AllRiskProfiles() {
		if _, ok := o.risks[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// IncludesTier reports whether t is selected.
func (o Options) IncludesTier(t client.Tier) bool {
	_, ok := o.tiers[client.ParseTier(string(t))]
	return ok
}

// IncludesRiskProfile reports whether r is selected. Matching is case-insensitive.
func (o Options) IncludesRiskProfile(r client.RiskProfile) bool {
	_, ok := o.risks[client.ParseRiskProfile(string(r))]
	return ok
}

// Unbounded reports whether the upper AUM bound sits at or above absoluteMax.
func (o Options) Unbounded(absoluteMax float64) bool { return o.maxAUM >= absoluteMax }

// WithPendingOnly returns a copy with the pending toggle set.
func (o Options) WithPendingOnly(v bool) Options {
	o.pendingOnly = v
	return o
}

// MinAUMIsDefault reports whether the lower bound matches def.
func (o Options) MinAUMIsDefault(def Options) bool { return o.minAUM <= def.minAUM }

// MaxAUMIsDefault reports whether the upper bound reaches def's upper bound.
func (o Options) MaxAUMIsDefault(def Options) bool { return o.maxAUM >= def.maxAUM }

// TiersAreDefault reports whether the tier selection equals def's.
func (o Options) TiersAreDefault(def Options) bool {
	if len(o.tiers) != len(def.tiers) {
		return false
	}
	for t := range def.tiers {
		if _, ok := o.tiers[t]; !ok {
			return false
		}
	}
	return true
}

// RiskProfilesAreDefault reports whether the risk selection equals def's.
func (o Options) RiskProfilesAreDefault(def Options) bool {
	if len(o.risks) != len(def.risks) {
		return false
	}
	for r := range def.risks {
		if _, ok := o.risks[r]; !ok {
			return false
		}
	}
	return true
}

// PendingOnlyIsDefault reports whether the pending toggle matches def.
func (o Options) PendingOnlyIsDefault(def Options) bool { return o.pendingOnly == def.pendingOnly }

// ActiveCount counts the dimensions that deviate from def. It drives a UI badge only.
func (o Options) ActiveCount(def Options) int {
	n := 0
	for _, isDefault := range []bool{
		o.MinAUMIsDefault(def),
		o.MaxAUMIsDefault(def),
		o.TiersAreDefault(def),
		o.RiskProfilesAreDefault(def),
		o.PendingOnlyIsDefault(def),
	} {
		if !isDefault {
			n++
		}
	}
	return n
}

func tierSet(tiers []client.Tier) map[client.Tier]struct{} {
	m := make(map[client.Tier]struct{}, len(tiers))
	for _, t := range tiers {
		m[t] = struct{}{}
	}
	return m
}

func riskSet(risks []client.RiskProfile) map[client.RiskProfile]struct{} {
	m := make(map[client.RiskProfile]struct{}, len(risks))
	for _, r := range risks {
		m[r] = struct{}{}
	}
	return m
}

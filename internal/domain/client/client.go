package client

import (
	"strings"
	"time"
)

// Tier is a client segmentation band.
type Tier string

// Tier values. Unknown stands for both missing and unrecognised tiers.
const (
	Platinum    Tier = "platinum"
	Gold        Tier = "gold"
	Silver      Tier = "silver"
	TierUnknown Tier = "unknown"
)

// AllTiers returns every tier a filter can select, in display order.
func AllTiers() []Tier { return []Tier{Platinum, Gold, Silver} }

// ParseTier normalizes a raw tier value. Matching is case-insensitive.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Platinum:
		return Platinum
	case Gold:
		return Gold
	case Silver:
		return Silver
	default:
		return TierUnknown
	}
}

// IsKnown reports whether the tier is one a filter can select.
func (t Tier) IsKnown() bool { return ParseTier(string(t)) != TierUnknown }

// RiskProfile is the client's declared investment risk appetite.
type RiskProfile string

// RiskProfile values. Unspecified stands for both missing and unrecognised profiles.
const (
	Conservative    RiskProfile = "conservative"
	Moderate        RiskProfile = "moderate"
	Aggressive      RiskProfile = "aggressive"
	RiskUnspecified RiskProfile = "unspecified"
)

// AllRiskProfiles returns every risk profile a filter can select, in display order.
func AllRiskProfiles() []RiskProfile { return []RiskProfile{Conservative, Moderate, Aggressive} }

// ParseRiskProfile normalizes a raw risk profile. Matching is case-insensitive.
func ParseRiskProfile(s string) RiskProfile {
	switch RiskProfile(strings.ToLower(strings.TrimSpace(s))) {
	case Conservative:
		return Conservative
	case Moderate:
		return Moderate
	case Aggressive:
		return Aggressive
	default:
		return RiskUnspecified
	}
}

// IsKnown reports whether the profile is one a filter can select.
func (r RiskProfile) IsKnown() bool { return ParseRiskProfile(string(r)) != RiskUnspecified }

// ProfileStatusIncomplete marks a profile the backend already knows is incomplete.
const ProfileStatusIncomplete = "incomplete"

// AttentionReason is a backend-supplied explanation for why a client was flagged.
type AttentionReason struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Client is a client record as served by the backend. The engine never mutates it.
type Client struct {
	ID                  string            `json:"id"`
	FullName            string            `json:"fullName"`
	Tier                Tier              `json:"tier,omitempty"`
	RiskProfile         RiskProfile       `json:"riskProfile,omitempty"`
	AUMValue            float64           `json:"aumValue"`
	Phone               string            `json:"phone,omitempty"`
	Email               string            `json:"email,omitempty"`
	LastContactDate     *time.Time        `json:"lastContactDate,omitempty"`
	LastTransactionDate *time.Time        `json:"lastTransactionDate,omitempty"`
	AlertCount          int               `json:"alertCount"`
	AttentionReasons    []AttentionReason `json:"attentionReasons,omitempty"`
	ProfileStatus       string            `json:"profileStatus,omitempty"`
	InvestmentHorizon   string            `json:"investmentHorizon,omitempty"`
	NetWorth            *float64          `json:"netWorth,omitempty"`
}

// HasIdentity reports whether the record carries a usable id.
func (c *Client) HasIdentity() bool { return strings.TrimSpace(c.ID) != "" }

// IsIncomplete reports whether the profile lacks fields an advisor needs before
// recommending products: backend status, AUM, investment horizon or net worth.
func (c *Client) IsIncomplete() bool {
	return c.ProfileStatus == ProfileStatusIncomplete ||
		c.AUMValue <= 0 ||
		strings.TrimSpace(c.InvestmentHorizon) == "" ||
		c.NetWorth == nil
}

// DaysSinceContact returns whole days elapsed since the last contact.
// A missing contact date yields NeverContactedDays.
func (c *Client) DaysSinceContact(now time.Time) int {
	if c.LastContactDate == nil || c.LastContactDate.IsZero() {
		return NeverContactedDays
	}
	ms := now.Sub(*c.LastContactDate).Milliseconds()
	days := ms / msPerDay
	if ms < 0 && ms%msPerDay != 0 {
		days-- // floor for contacts dated in the future
	}
	return int(days)
}

// NeverContactedDays is the contact age assumed for clients with no contact date.
const NeverContactedDays = 999

const msPerDay = int64(24 * time.Hour / time.Millisecond)

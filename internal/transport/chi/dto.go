package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain"
	"github.com/kailas-cloud/clientrank/internal/domain/client"
	"github.com/kailas-cloud/clientrank/internal/domain/feed"
	"github.com/kailas-cloud/clientrank/internal/domain/filter"
	"github.com/kailas-cloud/clientrank/internal/domain/semantic"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
)

// ErrorCode is the machine-readable error kind in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest      ErrorCode = "bad_request"
	CodeInvalidFilter   ErrorCode = "invalid_filter"
	CodeInvalidClientID ErrorCode = "invalid_client_id"
	CodeUnavailable     ErrorCode = "storage_unavailable"
	CodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FilterOptions is the wire form of filter.Options. Absent fields take defaults.
type FilterOptions struct {
	MinAUM       *float64 `json:"minAum,omitempty" validate:"omitempty,gte=0"`
	MaxAUM       *float64 `json:"maxAum,omitempty" validate:"omitempty,gte=0"`
	Tiers        []string `json:"includedTiers,omitempty" validate:"omitempty,min=1,dive,tier"`
	RiskProfiles []string `json:"riskProfiles,omitempty" validate:"omitempty,min=1,dive,risk"`
	PendingOnly  bool     `json:"pendingOnly"`
}

// toDomain fills absent fields from def and validates the result.
func (f *FilterOptions) toDomain(def filter.Options) (filter.Options, error) {
	minAUM, maxAUM := def.MinAUM(), def.MaxAUM()
	if f.MinAUM != nil {
		minAUM = *f.MinAUM
	}
	if f.MaxAUM != nil {
		maxAUM = *f.MaxAUM
	}

	tiers := def.Tiers()
	if f.Tiers != nil {
		tiers = make([]client.Tier, len(f.Tiers))
		for i, t := range f.Tiers {
			tiers[i] = client.Tier(t)
		}
	}
	risks := def.RiskProfiles()
	if f.RiskProfiles != nil {
		risks = make([]client.RiskProfile, len(f.RiskProfiles))
		for i, r := range f.RiskProfiles {
			risks[i] = client.RiskProfile(r)
		}
	}

	return filter.New(minAUM, maxAUM, tiers, risks, f.PendingOnly)
}

func filterOptionsFromDomain(o filter.Options) FilterOptions {
	minAUM, maxAUM := o.MinAUM(), o.MaxAUM()
	out := FilterOptions{
		MinAUM:      &minAUM,
		MaxAUM:      &maxAUM,
		PendingOnly: o.PendingOnly(),
	}
	for _, t := range o.Tiers() {
		out.Tiers = append(out.Tiers, string(t))
	}
	for _, r := range o.RiskProfiles() {
		out.RiskProfiles = append(out.RiskProfiles, string(r))
	}
	return out
}

// RankRequest is the body of POST /v1/rank. Collections are decoded leniently:
// a value that is not an array reads as empty and malformed elements are dropped.
type RankRequest struct {
	Clients         json.RawMessage `json:"clients"`
	Tasks           json.RawMessage `json:"tasks"`
	Appointments    json.RawMessage `json:"appointments"`
	Alerts          json.RawMessage `json:"alerts"`
	Health          json.RawMessage `json:"health"`
	SemanticResults json.RawMessage `json:"semanticResults"`
	Query           string          `json:"query"`
	Filters         *FilterOptions  `json:"filters"`
	RecentOnly      bool            `json:"recentOnly"`
	Now             *time.Time      `json:"now,omitempty"`
}

// DecodeRankRequest parses a rank body outside of HTTP, e.g. a snapshot file.
func DecodeRankRequest(data []byte) (RankRequest, error) {
	var req RankRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return RankRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return req, nil
}

// ToInput converts the request, resolving filters against def. The second
// return counts dropped elements.
func (r *RankRequest) ToInput(def filter.Options) (rankinguc.Input, int, error) {
	in, dropped := r.feeds()
	if r.Filters != nil {
		opts, err := r.Filters.toDomain(def)
		if err != nil {
			return rankinguc.Input{}, dropped, err
		}
		in.Filters = &opts
	}
	return in, dropped, nil
}

func (r *RankRequest) feeds() (rankinguc.Input, int) {
	var dropped, n int
	in := rankinguc.Input{Query: r.Query, RecentOnly: r.RecentOnly}

	in.Clients, n = decodeArray[client.Client](r.Clients)
	dropped += n
	in.Tasks, n = decodeArray[feed.Task](r.Tasks)
	dropped += n
	in.Appointments, n = decodeArray[feed.Appointment](r.Appointments)
	dropped += n
	in.Alerts, n = decodeArray[feed.Alert](r.Alerts)
	dropped += n
	in.Health, n = decodeArray[feed.Health](r.Health)
	dropped += n
	in.SemanticResults, n = decodeArray[semantic.Result](r.SemanticResults)
	dropped += n

	if r.Now != nil {
		in.Now = *r.Now
	}
	return in, dropped
}

// RankResponse is the body returned by POST /v1/rank.
type RankResponse struct {
	Items         []rankinguc.RankedClient `json:"items"`
	ActiveFilters int                      `json:"activeFilters"`
	SemanticMode  bool                     `json:"semanticMode"`
	Skipped       int                      `json:"skipped"`
}

// NewRankResponse builds the response body; dropped adds decode-time losses to
// the engine's skip count.
func NewRankResponse(res rankinguc.Result, dropped int) RankResponse {
	items := res.Items
	if items == nil {
		items = []rankinguc.RankedClient{}
	}
	return RankResponse{
		Items:         items,
		ActiveFilters: res.ActiveFilters,
		SemanticMode:  res.SemanticMode,
		Skipped:       res.Skipped + dropped,
	}
}

// CountResponse is the body returned by POST /v1/filters/active-count.
type CountResponse struct {
	Count int `json:"count"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// decodeArray decodes a JSON array element by element. Anything other than an
// array yields nil; elements that fail to decode are counted and skipped.
func decodeArray[T any](raw json.RawMessage) ([]T, int) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, 0
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, 0
	}
	out := make([]T, 0, len(elems))
	dropped := 0
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}

package ranking

import (
	"context"
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type mockRecencyStore struct {
	snap     domrecency.Snapshot
	touchErr error
	clearErr error
	touched  []string
	reads    int
	clears   int
}

func (m *mockRecencyStore) Snapshot(_ context.Context) domrecency.Snapshot {
	m.reads++
	return m.snap
}

func (m *mockRecencyStore) Touch(_ context.Context, clientID string) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched = append(m.touched, clientID)
	return nil
}

func (m *mockRecencyStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clears++
	m.snap = nil
	return nil
}

type mockRecorder struct {
	modes   []string
	skipped map[string]int
}

func (m *mockRecorder) ObservePass(mode string, _ time.Duration, _ int) {
	m.modes = append(m.modes, mode)
}

func (m *mockRecorder) ObserveSkipped(kind string, n int) {
	if m.skipped == nil {
		m.skipped = make(map[string]int)
	}
	m.skipped[kind] += n
}

func newTestService(rs RecencyStore, rec Recorder) *Service {
	return New(Config{}, rs, nil, rec, func() time.Time { return testNow }, nil)
}

func daysAgo(n int) *time.Time {
	t := testNow.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func ptr[T any](v T) *T { return &v }

// completeClient is contacted recently, has no alerts and a full profile.
func completeClient(id string, aum float64) client.Client {
	return client.Client{
		ID:                id,
		FullName:          "Client " + id,
		Tier:              client.Gold,
		RiskProfile:       client.Moderate,
		AUMValue:          aum,
		LastContactDate:   daysAgo(5),
		InvestmentHorizon: "long",
		NetWorth:          ptr(aum * 2),
	}
}

func ids(items []RankedClient) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

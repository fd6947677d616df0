package recency

import (
	"context"
	"time"

	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
)

// mockRepository keeps the snapshot in memory; loadErr/saveErr inject failures.
type mockRepository struct {
	stored  domrecency.Snapshot
	loadErr error
	saveErr  error
	clearErr error
	saves    int
}

func (m *mockRepository) Load(_ context.Context) (domrecency.Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.stored == nil {
		return domrecency.Snapshot{}, nil
	}
	return m.stored.Clone(), nil
}

func (m *mockRepository) Save(_ context.Context, snap domrecency.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.stored = snap.Clone()
	return nil
}

func (m *mockRepository) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.stored = nil
	return nil
}

type mockObserver struct {
	errs    map[string]int
	touches int
}

func (m *mockObserver) ObserveStoreError(op string) {
	if m.errs == nil {
		m.errs = make(map[string]int)
	}
	m.errs[op]++
}

func (m *mockObserver) ObserveTouch() { m.touches++ }

// stepClock returns a clock advancing one second per call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

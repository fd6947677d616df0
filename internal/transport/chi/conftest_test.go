package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	healthuc "github.com/kailas-cloud/clientrank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type mockRecency struct {
	snap     domrecency.Snapshot
	touchErr error
	clearErr error
	touched  []string
}

func (m *mockRecency) Snapshot(_ context.Context) domrecency.Snapshot { return m.snap }

func (m *mockRecency) Touch(_ context.Context, clientID string) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched = append(m.touched, clientID)
	return nil
}

func (m *mockRecency) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.snap = nil
	return nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestRouter(t *testing.T, rec *mockRecency, ping *mockPinger) http.Handler {
	t.Helper()
	var rs rankinguc.RecencyStore
	if rec != nil {
		rs = rec
	}
	var hp healthuc.StoragePinger
	if ping != nil {
		hp = ping
	}
	ranking := rankinguc.New(rankinguc.Config{}, rs, nil, nil, func() time.Time { return testNow }, zap.NewNop())
	srv := NewServer(ranking, healthuc.New(hp), zap.NewNop())
	return NewRouter(srv, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

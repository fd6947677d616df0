package clientrank

import (
	"context"

	healthuc "github.com/kailas-cloud/clientrank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
)

// --- rankingUseCase mock ---

type mockRankingUC struct {
	rankFn   func(ctx context.Context, in rankinguc.Input) rankinguc.Result
	touchFn  func(ctx context.Context, clientID string) error
	recentFn func(ctx context.Context) Recent
	clearFn  func(ctx context.Context) error
	defaults Filters
}

func (m *mockRankingUC) Rank(ctx context.Context, in rankinguc.Input) rankinguc.Result {
	return m.rankFn(ctx, in)
}

func (m *mockRankingUC) DefaultFilters() Filters { return m.defaults }

func (m *mockRankingUC) CountActiveFilters(opts Filters) int {
	return opts.ActiveCount(m.defaults)
}

func (m *mockRankingUC) TouchRecent(ctx context.Context, clientID string) error {
	return m.touchFn(ctx, clientID)
}

func (m *mockRankingUC) Recent(ctx context.Context) Recent {
	return m.recentFn(ctx)
}

func (m *mockRankingUC) ClearRecent(ctx context.Context) error {
	return m.clearFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

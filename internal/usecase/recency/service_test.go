package recency

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/clientrank/internal/domain"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	reporecency "github.com/kailas-cloud/clientrank/internal/repository/recency"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestTouch_StoresTimestamp(t *testing.T) {
	repo := &mockRepository{}
	obs := &mockObserver{}
	svc := New(repo, 0, func() time.Time { return epoch }, obs, nil)

	if err := svc.Touch(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.stored["c1"] != epoch.UnixMilli() {
		t.Errorf("stored: %v", repo.stored)
	}
	if obs.touches != 1 {
		t.Errorf("expected 1 touch observed, got %d", obs.touches)
	}
}

func TestTouch_CapsAtCapacity(t *testing.T) {
	repo := &mockRepository{}
	svc := New(repo, 0, stepClock(epoch), nil, nil)
	ctx := context.Background()

	for i := range 60 {
		if err := svc.Touch(ctx, fmt.Sprintf("c%02d", i)); err != nil {
			t.Fatalf("touch %d: %v", i, err)
		}
	}

	snap := svc.Snapshot(ctx)
	if len(snap) != domrecency.DefaultCapacity {
		t.Fatalf("expected %d entries, got %d", domrecency.DefaultCapacity, len(snap))
	}
	for i := range 10 {
		if snap.Contains(fmt.Sprintf("c%02d", i)) {
			t.Errorf("c%02d should have been evicted", i)
		}
	}
	for i := 10; i < 60; i++ {
		if !snap.Contains(fmt.Sprintf("c%02d", i)) {
			t.Errorf("c%02d should be retained", i)
		}
	}
}

func TestTouch_FrozenClockKeepsMostRecent(t *testing.T) {
	repo := &mockRepository{}
	svc := New(repo, 0, func() time.Time { return epoch }, nil, nil)
	ctx := context.Background()

	for i := range 60 {
		id := fmt.Sprintf("z%02d", i)
		if err := svc.Touch(ctx, id); err != nil {
			t.Fatalf("touch %d: %v", i, err)
		}
		if !repo.stored.Contains(id) {
			t.Fatalf("%s evicted by its own touch", id)
		}
	}

	snap := svc.Snapshot(ctx)
	if len(snap) != domrecency.DefaultCapacity {
		t.Fatalf("expected %d entries, got %d", domrecency.DefaultCapacity, len(snap))
	}
	for i := 50; i < 60; i++ {
		if !snap.Contains(fmt.Sprintf("z%02d", i)) {
			t.Errorf("z%02d should be retained", i)
		}
	}
	for i := range 10 {
		if snap.Contains(fmt.Sprintf("z%02d", i)) {
			t.Errorf("z%02d should have been evicted", i)
		}
	}
}

func TestTouch_RefreshDoesNotGrow(t *testing.T) {
	repo := &mockRepository{}
	svc := New(repo, 3, stepClock(epoch), nil, nil)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "a"} {
		_ = svc.Touch(ctx, id)
	}
	_ = svc.Touch(ctx, "d")

	snap := svc.Snapshot(ctx)
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %v", snap)
	}
	if snap.Contains("b") {
		t.Error("b is the oldest and should be evicted")
	}
	if !snap.Contains("a") {
		t.Error("a was refreshed and should survive")
	}
}

func TestTouch_InvalidID(t *testing.T) {
	repo := &mockRepository{}
	svc := New(repo, 0, nil, nil, nil)

	for _, id := range []string{"", "   "} {
		if err := svc.Touch(context.Background(), id); !errors.Is(err, domain.ErrInvalidClientID) {
			t.Errorf("Touch(%q): expected ErrInvalidClientID, got %v", id, err)
		}
	}
	if repo.saves != 0 {
		t.Errorf("nothing should be written, got %d saves", repo.saves)
	}
}

func TestTouch_CorruptStoredValueIsReplaced(t *testing.T) {
	repo := &mockRepository{loadErr: reporecency.ErrCorrupt}
	obs := &mockObserver{}
	svc := New(repo, 0, func() time.Time { return epoch }, obs, nil)

	if err := svc.Touch(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.stored) != 1 || !repo.stored.Contains("c1") {
		t.Errorf("expected fresh map with c1, got %v", repo.stored)
	}
	if obs.errs[OpCorrupt] != 1 {
		t.Errorf("expected corrupt failure counted, got %v", obs.errs)
	}
}

func TestTouch_SaveFailure(t *testing.T) {
	repo := &mockRepository{saveErr: errors.New("connection reset")}
	obs := &mockObserver{}
	svc := New(repo, 0, nil, obs, nil)

	err := svc.Touch(context.Background(), "c1")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if obs.errs[OpSave] != 1 {
		t.Errorf("expected save failure counted, got %v", obs.errs)
	}
	if obs.touches != 0 {
		t.Error("failed touch should not be counted")
	}
}

func TestSnapshot_LoadFailureIsEmpty(t *testing.T) {
	repo := &mockRepository{loadErr: errors.New("timeout")}
	obs := &mockObserver{}
	svc := New(repo, 0, nil, obs, nil)

	snap := svc.Snapshot(context.Background())
	if snap == nil || len(snap) != 0 {
		t.Errorf("expected empty non-nil snapshot, got %v", snap)
	}
	if obs.errs[OpLoad] != 1 {
		t.Errorf("expected load failure counted, got %v", obs.errs)
	}
}

func TestSnapshot_PrunesOversizedStoredMap(t *testing.T) {
	stored := domrecency.Snapshot{}
	for i := range 5 {
		stored[fmt.Sprintf("c%d", i)] = int64(i)
	}
	svc := New(&mockRepository{stored: stored}, 2, nil, nil, nil)

	snap := svc.Snapshot(context.Background())
	if len(snap) != 2 || !snap.Contains("c4") || !snap.Contains("c3") {
		t.Errorf("expected the two most recent, got %v", snap)
	}
}

func TestClear_EmptiesHistory(t *testing.T) {
	repo := &mockRepository{}
	svc := New(repo, 0, stepClock(time.Unix(0, 0)), nil, nil)
	ctx := context.Background()

	if err := svc.Touch(ctx, "c1"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if snap := svc.Snapshot(ctx); len(snap) != 0 {
		t.Errorf("expected empty history after clear, got %v", snap)
	}
}

func TestClear_Failure(t *testing.T) {
	repo := &mockRepository{clearErr: errors.New("read-only replica")}
	obs := &mockObserver{}
	svc := New(repo, 0, nil, obs, nil)

	if err := svc.Clear(context.Background()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if obs.errs[OpClear] != 1 {
		t.Errorf("expected clear failure counted, got %v", obs.errs)
	}
}

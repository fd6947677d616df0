package recency

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/clientrank/internal/db"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
)

func TestLoad_MissingKey(t *testing.T) {
	repo, _ := newTestRepo(t)

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap == nil || len(snap) != 0 {
		t.Errorf("expected empty non-nil snapshot, got %v", snap)
	}
}

func TestLoad_Decodes(t *testing.T) {
	repo, ms := newTestRepo(t)
	var gotKey string
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		gotKey = key
		return []byte(`{"c1":1700000000000,"c2":1.7000000001e12,"":5,"bad":-1}`), nil
	}

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != DefaultKey {
		t.Errorf("key: got %q, want %q", gotKey, DefaultKey)
	}
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %v", snap)
	}
	if snap["c1"] != 1700000000000 || snap["c2"] != 1700000000100 {
		t.Errorf("unexpected values: %v", snap)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":     "garbage",
		"array":        `["c1"]`,
		"string stamp": `{"c1":"yesterday"}`,
	} {
		t.Run(name, func(t *testing.T) {
			repo, ms := newTestRepo(t)
			ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
				return []byte(payload), nil
			}
			if _, err := repo.Load(context.Background()); !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestLoad_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: errors.New("connection refused")}
	}
	_, err := repo.Load(context.Background())
	if err == nil || errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSave_Encodes(t *testing.T) {
	repo, ms := newTestRepo(t)
	var written []byte
	ms.setFn = func(_ context.Context, _ string, value []byte) error {
		written = value
		return nil
	}

	if err := repo.Save(context.Background(), domrecency.Snapshot{"c1": 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]int64
	if err := json.Unmarshal(written, &decoded); err != nil {
		t.Fatalf("written value is not JSON: %v", err)
	}
	if decoded["c1"] != 42 {
		t.Errorf("unexpected payload: %s", written)
	}
}

func TestSave_NilSnapshotWritesEmptyObject(t *testing.T) {
	repo, ms := newTestRepo(t)
	var written []byte
	ms.setFn = func(_ context.Context, _ string, value []byte) error {
		written = value
		return nil
	}
	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(written) != "{}" {
		t.Errorf("got %s, want {}", written)
	}
}

func TestNew_CustomKey(t *testing.T) {
	repo := New(&mockKVStore{}, "dash:eu:recent")
	if repo.Key() != "dash:eu:recent" {
		t.Errorf("key: got %q", repo.Key())
	}
}

func TestClear_DeletesKey(t *testing.T) {
	repo, ms := newTestRepo(t)
	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}
	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if deleted != DefaultKey {
		t.Errorf("deleted %q, want %q", deleted, DefaultKey)
	}
}

func TestClear_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.delFn = func(_ context.Context, _ string) error {
		return &db.Error{Op: db.OpDel, Err: errors.New("connection refused")}
	}
	err := repo.Clear(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpDel {
		t.Fatalf("expected wrapped db.Error, got %v", err)
	}
}

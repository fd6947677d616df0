package recency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/clientrank/internal/db"
	"github.com/kailas-cloud/clientrank/internal/domain"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
)

// DefaultKey is where the recently viewed map lives when no prefix is configured.
const DefaultKey = domain.KeyPrefix + "recent_clients"

// ErrCorrupt signals a stored value that is not a JSON object of id → epoch millis.
var ErrCorrupt = errors.New("recency: corrupt stored value")

// store is the consumer interface for the recency repository (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo persists the recently viewed map as a single JSON document:
// {"<clientId>": <epochMillis>, ...}.
type Repo struct {
	store store
	key   string
}

// New creates a recency repository. An empty key selects DefaultKey.
func New(s store, key string) *Repo {
	if key == "" {
		key = DefaultKey
	}
	return &Repo{store: s, key: key}
}

// Key returns the storage key in use.
func (r *Repo) Key() string { return r.key }

// Load returns the stored snapshot. A missing key yields an empty snapshot.
func (r *Repo) Load(ctx context.Context) (domrecency.Snapshot, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrecency.Snapshot{}, nil
		}
		return nil, fmt.Errorf("recency GET %s: %w", r.key, err)
	}
	if len(data) == 0 {
		return domrecency.Snapshot{}, nil
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	snap := make(domrecency.Snapshot, len(raw))
	for id, at := range raw {
		if id == "" || at < 0 {
			continue
		}
		snap[id] = int64(at)
	}
	return snap, nil
}

// Save overwrites the stored snapshot. Concurrent writers are last-write-wins.
func (r *Repo) Save(ctx context.Context, snap domrecency.Snapshot) error {
	if snap == nil {
		snap = domrecency.Snapshot{}
	}
	data, err := json.Marshal(map[string]int64(snap))
	if err != nil {
		return fmt.Errorf("recency encode: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("recency SET %s: %w", r.key, err)
	}
	return nil
}

// Clear deletes the stored map. Clearing a missing key is not an error.
func (r *Repo) Clear(ctx context.Context) error {
	if err := r.store.Del(ctx, r.key); err != nil {
		return fmt.Errorf("recency DEL %s: %w", r.key, err)
	}
	return nil
}

package recency

import (
	"context"

	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
)

// Repository loads and stores the recently viewed map.
type Repository interface {
	Load(ctx context.Context) (domrecency.Snapshot, error)
	Save(ctx context.Context, snap domrecency.Snapshot) error
	Clear(ctx context.Context) error
}

// Observer receives recency store events for metrics.
type Observer interface {
	ObserveStoreError(op string)
	ObserveTouch()
}

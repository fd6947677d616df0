package recency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank/internal/domain"
	domrecency "github.com/kailas-cloud/clientrank/internal/domain/recency"
	reporecency "github.com/kailas-cloud/clientrank/internal/repository/recency"
)

// Failure ops reported to the Observer.
const (
	OpLoad    = "load"
	OpSave    = "save"
	OpCorrupt = "corrupt"
	OpClear   = "clear"
)

// Service is the recency store: a bounded map of client id to last access time.
type Service struct {
	repo     Repository
	capacity int
	now      func() time.Time
	obs      Observer
	logger   *zap.Logger

	mu sync.Mutex // serialises read-modify-write within the process
}

// New creates a Service. capacity <= 0 selects domrecency.DefaultCapacity,
// a nil clock selects time.Now, obs may be nil.
func New(repo Repository, capacity int, now func() time.Time, obs Observer, logger *zap.Logger) *Service {
	if capacity <= 0 {
		capacity = domrecency.DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, capacity: capacity, now: now, obs: obs, logger: logger}
}

// Capacity returns the maximum number of entries kept.
func (s *Service) Capacity() int { return s.capacity }

// Touch records that the client was opened now and prunes to capacity.
// An unreadable stored map is replaced rather than blocking the write.
func (s *Service) Touch(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.ErrInvalidClientID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load(ctx)
	next := current.Touch(clientID, s.now(), s.capacity)

	if err := s.repo.Save(ctx, next); err != nil {
		s.fail(OpSave, err)
		return fmt.Errorf("touch %s: %w: %w", clientID, domain.ErrStorageUnavailable, err)
	}

	if s.obs != nil {
		s.obs.ObserveTouch()
	}
	s.logger.Debug("Client touched",
		zap.String("client_id", clientID),
		zap.Int("entries", len(next)),
	)
	return nil
}

// Snapshot returns the current map. Storage failures yield an empty map.
func (s *Service) Snapshot(ctx context.Context) domrecency.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear forgets every recently opened client.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.fail(OpClear, err)
		return fmt.Errorf("clear: %w: %w", domain.ErrStorageUnavailable, err)
	}
	s.logger.Info("Recent history cleared")
	return nil
}

func (s *Service) load(ctx context.Context) domrecency.Snapshot {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		op := OpLoad
		if errors.Is(err, reporecency.ErrCorrupt) {
			op = OpCorrupt
		}
		s.fail(op, err)
		return domrecency.Snapshot{}
	}
	if snap == nil {
		return domrecency.Snapshot{}
	}
	// старые записи могли быть сохранены с большей ёмкостью
	return snap.Prune(s.capacity)
}

func (s *Service) fail(op string, err error) {
	s.logger.Warn("Recency store failure",
		zap.String("op", op),
		zap.Error(err),
	)
	if s.obs != nil {
		s.obs.ObserveStoreError(op)
	}
}

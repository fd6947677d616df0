package health

import "context"

// StoragePinger checks recency storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

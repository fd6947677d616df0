package clientrank

import "github.com/kailas-cloud/clientrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidFilter      = domain.ErrInvalidFilter
	ErrInvalidClientID    = domain.ErrInvalidClientID
	ErrStorageUnavailable = domain.ErrStorageUnavailable
)

package domain

import "errors"

// KeyPrefix is the default namespace for keys written by clientrank.
const KeyPrefix = "clientrank:"

var (
	// ErrInvalidFilter signals filter options that violate their own invariants.
	ErrInvalidFilter = errors.New("invalid filter options")
	// ErrInvalidClientID signals an empty or malformed client identifier.
	ErrInvalidClientID = errors.New("invalid client id")
	// ErrStorageUnavailable signals a backing store that cannot serve requests.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidInput signals a request body that cannot be decoded.
	ErrInvalidInput = errors.New("invalid input")
)

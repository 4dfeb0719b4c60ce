// Package common defines shared sentinel errors used across the vault engine.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotInitialized indicates that the underlying store is not ready.
	// Read operations fail fast with this error instead of returning empty
	// results, so that setup races are not masked.
	ErrNotInitialized = errors.New("store not initialized")

	// ErrValidation indicates invalid input, e.g. a missing required id or a
	// reference to a group that does not exist.
	ErrValidation = errors.New("validation error")

	// ErrPersistence indicates that a write or transaction failed. The root
	// cause is wrapped alongside it, so both errors.Is(err, ErrPersistence)
	// and inspection of the underlying driver error work.
	ErrPersistence = errors.New("persistence error")
)

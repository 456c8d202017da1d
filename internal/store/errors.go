package store

import (
	"errors"

	"barberboss/backend/internal/domain"
)

var (
	ErrConflict            = domain.ErrConflict
	ErrNotFound            = domain.ErrNotFound
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
	// ErrContention covers serialization failures, lock waits and transaction
	// timeouts. Callers decide whether to retry.
	ErrContention = errors.New("scheduling contention")
)

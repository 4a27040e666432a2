package domain

import "errors"

var (
	// ErrGraphUnavailable wraps any graph store failure: unreachable, timeout,
	// or a query the store refused. Synchronization paths swallow it; read
	// paths surface it so callers can answer "temporarily unavailable" instead
	// of a silently empty result.
	ErrGraphUnavailable = errors.New("graph store unavailable")

	// ErrCacheUnavailable wraps ranking cache failures.
	ErrCacheUnavailable = errors.New("ranking cache unavailable")

	// ErrNotFound means a referenced person, job, or course node is absent
	// where a read strictly requires it.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput rejects a call before any store mutation: out-of-range
	// progress, unknown relationship type, missing ids.
	ErrInvalidInput = errors.New("invalid input")
)

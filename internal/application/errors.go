package application

import "errors"

var (
	// ErrNotFound is returned when the requested task does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrStoreUnavailable is returned when the scheduler has no task store configured.
	ErrStoreUnavailable = errors.New("application: task store not configured")
)

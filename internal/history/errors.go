package history

import "errors"

var (
	// ErrInvalidEntity is returned when an item fails validation before
	// being stored.
	ErrInvalidEntity = errors.New("invalid history item")

	// ErrQuotaExceeded is returned when the serialized history would not
	// fit in the configured byte quota.
	ErrQuotaExceeded = errors.New("history storage quota exceeded")

	// ErrWriteFailed is returned when the history could not be persisted.
	// The stored history is left as it was before the call.
	ErrWriteFailed = errors.New("failed to write history")
)

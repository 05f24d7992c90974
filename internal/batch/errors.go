package batch

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/panics"
)

// Configuration errors returned by Run before any item is processed.
var (
	// ErrInvalidConcurrency is returned when the concurrency limit is below 1.
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")

	// ErrNilWorker is returned when Run is called without a worker function.
	ErrNilWorker = errors.New("worker cannot be nil")
)

// ErrorInfo is the normalized failure recorded in an Outcome.
type ErrorInfo struct {
	// Message is the human readable failure description.
	Message string

	// Cause is the original error, if the failure was an error value.
	Cause error
}

// Error implements the error interface.
func (e *ErrorInfo) Error() string {
	return e.Message
}

// Unwrap exposes the original error to errors.Is and errors.As.
func (e *ErrorInfo) Unwrap() error {
	return e.Cause
}

func newErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return &ErrorInfo{Message: "unknown failure"}
	}
	return &ErrorInfo{Message: err.Error(), Cause: err}
}

// fromRecovered converts a recovered panic into an ErrorInfo. Panic values
// that are not errors are wrapped so callers can still use errors.As.
func fromRecovered(r *panics.Recovered) *ErrorInfo {
	if err, ok := r.Value.(error); ok {
		return &ErrorInfo{Message: err.Error(), Cause: r.AsError()}
	}
	return &ErrorInfo{
		Message: fmt.Sprintf("%v", r.Value),
		Cause:   r.AsError(),
	}
}

package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/stock-seo/internal/platform/logger"
	"github.com/sethvargo/go-retry"
)

// Default retry settings for model calls.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// permanentMarkers are message fragments identifying failures that retrying
// cannot fix: bad credentials, rejected requests and unparseable output.
var permanentMarkers = []string{"api key", "invalid", "parse", "structure"}

// RetryPolicy retries transient failures with exponential backoff. The delay
// starts at BaseDelay and doubles after every failed attempt, so a policy
// allows at most MaxRetries+1 attempts.
type RetryPolicy struct {
	MaxRetries    int
	BaseDelay     time.Duration
	JitterPercent int
}

// DefaultRetryPolicy returns the policy used when nothing is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// Do calls fn until it succeeds, fails permanently, or the retries are used
// up. Permanent errors are returned unchanged after a single attempt.
// Exhausted retries return an error wrapping both ErrTransientFailure and the
// last failure. Context cancellation stops the loop and returns ctx.Err().
//
// A nil log falls back to the logger carried by ctx, then to slog.Default().
func (p RetryPolicy) Do(ctx context.Context, log *slog.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = logger.FromContextOrDefault(ctx, nil)
	}

	maxRetries := max(p.MaxRetries, 0)
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	backoff := retry.NewExponential(baseDelay)
	if p.JitterPercent > 0 {
		backoff = retry.WithJitterPercent(uint64(p.JitterPercent), backoff)
	}
	backoff = retry.WithMaxRetries(uint64(maxRetries), backoff)

	attempts := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if IsPermanent(err) {
			log.DebugContext(ctx, "permanent generation failure, not retrying",
				"attempt", attempts,
				"error", err)
			return err
		}

		log.WarnContext(ctx, "generation attempt failed",
			"attempt", attempts,
			"max_attempts", maxRetries+1,
			"error", err)
		return retry.RetryableError(err)
	})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if IsPermanent(err) {
		return err
	}

	log.ErrorContext(ctx, "generation retries exhausted",
		"attempts", attempts,
		"error", err)
	if errors.Is(err, ErrTransientFailure) {
		return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
	}
	return fmt.Errorf("%w: giving up after %d attempts: %w", ErrTransientFailure, attempts, err)
}

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

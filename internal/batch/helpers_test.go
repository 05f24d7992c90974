package batch_test

import (
	"log/slog"
	"testing"

	"github.com/phrazzld/stock-seo/internal/platform/logger"
)

func newTestLogger(t *testing.T) *slog.Logger {
	return logger.NewTestLogger(t)
}

package history

import (
	"context"

	"github.com/phrazzld/stock-seo/internal/domain"
)

// Store defines the interface for history persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// List returns all stored items, newest first.
	// A missing or unreadable history is reported as empty.
	List(ctx context.Context) ([]domain.HistoryItem, error)

	// Save prepends item, evicting the oldest items beyond the capacity,
	// and returns the resulting history. When the write fails the previous
	// history is returned together with an error wrapping ErrWriteFailed.
	Save(ctx context.Context, item domain.HistoryItem) ([]domain.HistoryItem, error)

	// Delete removes the item with the given id and returns the remaining
	// history. Unknown ids leave the history unchanged.
	Delete(ctx context.Context, id string) ([]domain.HistoryItem, error)

	// Clear removes every item.
	Clear(ctx context.Context) error

	// Info reports how full the history is in items.
	Info(ctx context.Context) (Info, error)

	// Usage reports how full the history is in bytes.
	Usage(ctx context.Context) (Usage, error)
}

// Info summarizes the history size relative to its item capacity.
type Info struct {
	ItemCount   int  `json:"itemCount"`
	MaxItems    int  `json:"maxItems"`
	IsNearLimit bool `json:"isNearLimit"`
}

// Usage summarizes the history size relative to its byte quota.
// Total is zero when no quota is configured.
type Usage struct {
	Used       int64   `json:"used"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
	Warning    bool    `json:"warning"`
}

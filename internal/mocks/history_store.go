package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/history"
)

// MockHistoryStore implements history.Store in memory for testing.
type MockHistoryStore struct {
	mu    sync.Mutex
	items []domain.HistoryItem

	// SaveErr, when set, is returned by Save without storing the item.
	SaveErr error

	// SaveCalls counts Save invocations.
	SaveCalls int
}

var _ history.Store = (*MockHistoryStore)(nil)

// NewMockHistoryStore creates a store holding items, newest first.
func NewMockHistoryStore(items ...domain.HistoryItem) *MockHistoryStore {
	return &MockHistoryStore{items: append([]domain.HistoryItem{}, items...)}
}

// List implements history.Store.
func (m *MockHistoryStore) List(ctx context.Context) ([]domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryItem{}, m.items...), nil
}

// Save implements history.Store.
func (m *MockHistoryStore) Save(ctx context.Context, item domain.HistoryItem) ([]domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveErr != nil {
		return append([]domain.HistoryItem{}, m.items...), m.SaveErr
	}
	m.items = append([]domain.HistoryItem{item}, m.items...)
	return append([]domain.HistoryItem{}, m.items...), nil
}

// Delete implements history.Store.
func (m *MockHistoryStore) Delete(ctx context.Context, id string) ([]domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.items[:0]
	for _, item := range m.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return append([]domain.HistoryItem{}, m.items...), nil
}

// Clear implements history.Store.
func (m *MockHistoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

// Info implements history.Store.
func (m *MockHistoryStore) Info(ctx context.Context) (history.Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return history.Info{ItemCount: len(m.items), MaxItems: history.DefaultMaxItems}, nil
}

// Usage implements history.Store.
func (m *MockHistoryStore) Usage(ctx context.Context) (history.Usage, error) {
	return history.Usage{}, nil
}

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/phrazzld/stock-seo/internal/config"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/spf13/afero"
)

// Capacity policy.
const (
	// DefaultMaxItems is used when the configuration leaves MaxItems unset.
	DefaultMaxItems = 50

	// nearLimitPercent is the fill level, in items or bytes, from which the
	// history is reported as nearly full.
	nearLimitPercent = 80

	// fallbackMinItems is the size above which a failed write is retried
	// with fewer items.
	fallbackMinItems = 10

	// fallbackKeepPercent is the share of items kept by that retry.
	fallbackKeepPercent = 80
)

// FileStore implements Store using one JSON file.
type FileStore struct {
	fs         afero.Fs
	path       string
	maxItems   int
	quotaBytes int64
	logger     *slog.Logger

	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore writing to cfg.Path on fsys.
func NewFileStore(fsys afero.Fs, cfg config.HistoryConfig, logger *slog.Logger) (*FileStore, error) {
	if fsys == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	if cfg.Path == "" {
		return nil, errors.New("history path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	return &FileStore{
		fs:         fsys,
		path:       cfg.Path,
		maxItems:   maxItems,
		quotaBytes: cfg.QuotaBytes,
		logger:     logger.With("component", "history_store", "path", cfg.Path),
	}, nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]domain.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(ctx), nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, item domain.HistoryItem) ([]domain.HistoryItem, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.read(ctx)

	updated := make([]domain.HistoryItem, 0, min(len(previous)+1, s.maxItems))
	updated = append(updated, item)
	updated = append(updated, previous...)
	if len(updated) > s.maxItems {
		s.logger.DebugContext(ctx, "evicting oldest history items",
			"evicted", len(updated)-s.maxItems)
		updated = updated[:s.maxItems]
	}

	err := s.write(updated)
	if err == nil {
		return updated, nil
	}

	s.logger.ErrorContext(ctx, "failed to save history", "error", err, "items", len(updated))
	if len(updated) <= fallbackMinItems {
		return previous, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	reduced := updated[:len(updated)*fallbackKeepPercent/100]
	if retryErr := s.write(reduced); retryErr != nil {
		s.logger.ErrorContext(ctx, "failed to save reduced history", "error", retryErr, "items", len(reduced))
		return previous, fmt.Errorf("%w: %w", ErrWriteFailed, retryErr)
	}

	s.logger.WarnContext(ctx, "reduced history to fit storage",
		"items", len(reduced),
		"dropped", len(updated)-len(reduced))
	return reduced, nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, id string) ([]domain.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.read(ctx)
	updated := make([]domain.HistoryItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			updated = append(updated, item)
		}
	}

	if len(updated) == len(items) {
		s.logger.DebugContext(ctx, "history item not found", "id", id)
		return updated, nil
	}

	if err := s.write(updated); err != nil {
		return items, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return updated, nil
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove history file: %w", ErrWriteFailed, err)
	}

	s.logger.InfoContext(ctx, "history cleared")
	return nil
}

// Info implements Store.
func (s *FileStore) Info(ctx context.Context) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.read(ctx))
	return Info{
		ItemCount:   count,
		MaxItems:    s.maxItems,
		IsNearLimit: count*100 >= s.maxItems*nearLimitPercent,
	}, nil
}

// Usage implements Store.
func (s *FileStore) Usage(ctx context.Context) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	info, err := s.fs.Stat(s.path)
	switch {
	case err == nil:
		used = info.Size()
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Usage{}, fmt.Errorf("failed to stat history file: %w", err)
	}

	usage := Usage{Used: used, Total: s.quotaBytes}
	if s.quotaBytes > 0 {
		usage.Percentage = float64(used) / float64(s.quotaBytes) * 100
		usage.Warning = usage.Percentage > nearLimitPercent
	}
	return usage, nil
}

// read loads the history. Missing and corrupt files read as empty.
func (s *FileStore) read(ctx context.Context) []domain.HistoryItem {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.ErrorContext(ctx, "failed to read history", "error", err)
		}
		return []domain.HistoryItem{}
	}
	if len(data) == 0 {
		return []domain.HistoryItem{}
	}

	var items []domain.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.ErrorContext(ctx, "failed to load history", "error", err)
		return []domain.HistoryItem{}
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return items
}

// write replaces the history file with items. The file is written to a
// temporary sibling first and renamed into place.
func (s *FileStore) write(items []domain.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if s.quotaBytes > 0 && int64(len(data)) > s.quotaBytes {
		return fmt.Errorf("%w: %d bytes needed, quota is %d", ErrQuotaExceeded, len(data), s.quotaBytes)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

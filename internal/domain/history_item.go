package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryItem is a persisted record of a past analysis.
type HistoryItem struct {
	ID               string        `json:"id"`
	Timestamp        time.Time     `json:"timestamp"`
	FileName         string        `json:"fileName"`
	ThumbnailDataURL string        `json:"thumbnailDataUrl"`
	Metadata         StockMetadata `json:"metadata"`
}

// NewHistoryItem creates a HistoryItem with a fresh ID and the current time.
// thumbnail may be empty when no preview could be produced.
func NewHistoryItem(fileName, thumbnail string, metadata StockMetadata) (*HistoryItem, error) {
	item := &HistoryItem{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		FileName:         fileName,
		ThumbnailDataURL: thumbnail,
		Metadata:         metadata,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the HistoryItem has valid data.
func (h *HistoryItem) Validate() error {
	if h.ID == "" {
		return ErrEmptyID
	}
	if h.FileName == "" {
		return ErrEmptyFileName
	}
	return nil
}

// Result converts the record back into an ImageResult, using the stored
// thumbnail as the preview.
func (h *HistoryItem) Result() ImageResult {
	return ImageResult{
		FileName:   h.FileName,
		PreviewURL: h.ThumbnailDataURL,
		Metadata:   h.Metadata,
	}
}

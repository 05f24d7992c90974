package generation

import (
	"context"

	"github.com/phrazzld/stock-seo/internal/domain"
)

// Generator defines the interface for generating stock metadata for an image.
// Implementations must be safe for concurrent use; the analysis service calls
// GenerateMetadata from several workers at once.
type Generator interface {
	// GenerateMetadata returns exactly titleCount titles and
	// domain.KeywordCount keywords for img, or an error wrapping one of the
	// package sentinel errors.
	GenerateMetadata(ctx context.Context, img domain.Image, titleCount int) (*domain.StockMetadata, error)
}

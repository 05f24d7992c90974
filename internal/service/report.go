package service

import (
	"fmt"

	"github.com/phrazzld/stock-seo/internal/batch"
	"github.com/phrazzld/stock-seo/internal/domain"
)

// Report is the outcome of analyzing a batch of images.
type Report struct {
	// Results holds the successful analyses in input order.
	Results []domain.ImageResult `json:"results"`

	// Failures holds images that were analyzed but failed, in input order.
	Failures []domain.ImageError `json:"failures"`

	// Rejected holds images that failed validation and were never analyzed.
	Rejected []domain.ImageError `json:"rejected"`

	// Summary counts the analyzed images.
	Summary batch.Summary `json:"summary"`

	// Message is the user facing summary. It is empty when every analyzed
	// image succeeded.
	Message string `json:"message,omitempty"`
}

// AllFailed reports whether at least one image was analyzed and none succeeded.
func (r *Report) AllFailed() bool {
	return r.Summary.AllFailed()
}

// SummaryMessage describes a batch that had failures.
func SummaryMessage(s batch.Summary) string {
	switch {
	case s.Failed == 0:
		return ""
	case s.Succeeded == 0:
		return fmt.Sprintf("Failed to process all %d image(s). Please check the errors below and try again.", s.Failed)
	default:
		return fmt.Sprintf("Successfully processed %d image(s), but %d failed.", s.Succeeded, s.Failed)
	}
}

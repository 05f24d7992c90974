package domain

import (
	"fmt"
	"strings"
)

// KeywordCount is the exact number of keywords generated for every image.
const KeywordCount = 48

// Title count bounds and default.
const (
	MinTitleCount     = 1
	MaxTitleCount     = 20
	DefaultTitleCount = 5
)

// TitleCountChoices are the variations offered to users.
var TitleCountChoices = []int{1, 3, 5, 10, 15, 20}

// StockMetadata is the SEO metadata generated for a single image.
type StockMetadata struct {
	Titles   []string `json:"titles"`
	Keywords []string `json:"keywords"`
}

// ValidateTitleCount checks that n is within the supported range.
func ValidateTitleCount(n int) error {
	if n < MinTitleCount || n > MaxTitleCount {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidTitleCount, n, MinTitleCount, MaxTitleCount)
	}
	return nil
}

// Validate checks that the metadata holds exactly titleCount non-empty
// titles and exactly KeywordCount non-empty lowercase keywords.
func (m *StockMetadata) Validate(titleCount int) error {
	if len(m.Titles) != titleCount {
		return fmt.Errorf("%w: expected %d titles, got %d", ErrValidation, titleCount, len(m.Titles))
	}
	for i, title := range m.Titles {
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("%w: title %d is empty", ErrValidation, i+1)
		}
	}

	if len(m.Keywords) != KeywordCount {
		return fmt.Errorf("%w: expected %d keywords, got %d", ErrValidation, KeywordCount, len(m.Keywords))
	}
	for i, keyword := range m.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("%w: keyword %d is empty", ErrValidation, i+1)
		}
		if keyword != strings.ToLower(keyword) {
			return fmt.Errorf("%w: keyword %q is not lowercase", ErrValidation, keyword)
		}
	}

	return nil
}

// ImageResult is the outcome shown for a successfully analyzed image.
type ImageResult struct {
	FileName   string        `json:"fileName"`
	PreviewURL string        `json:"previewUrl"`
	Metadata   StockMetadata `json:"metadata"`
}

// ImageError describes an image that was rejected or could not be analyzed.
type ImageError struct {
	FileName string `json:"fileName"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
}

// NewImageError creates an ImageError for fileName caused by err.
func NewImageError(fileName string, err error) *ImageError {
	return &ImageError{FileName: fileName, Message: err.Error(), Err: err}
}

// Error implements the error interface.
func (e *ImageError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ImageError) Unwrap() error {
	return e.Err
}

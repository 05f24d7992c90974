package domain

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Upload limits.
const (
	MaxImageBytes     = 10 * 1024 * 1024
	MaxImagesPerBatch = 20
)

// AllowedMIMETypes lists the image types accepted for analysis.
var AllowedMIMETypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// Image is an uploaded image awaiting analysis.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Size returns the image size in bytes.
func (i Image) Size() int {
	return len(i.Data)
}

// Validate checks the image against the upload rules.
func (i Image) Validate() error {
	if i.Name == "" {
		return ErrEmptyFileName
	}
	if !IsAllowedMIMEType(i.MIMEType) {
		return fmt.Errorf("%w: %s is %q", ErrUnsupportedType, i.Name, i.MIMEType)
	}
	if i.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyImage, i.Name)
	}
	if i.Size() > MaxImageBytes {
		return fmt.Errorf("%w: %s is %.1f MB, limit is 10 MB",
			ErrImageTooLarge, i.Name, float64(i.Size())/(1024*1024))
	}
	return nil
}

// IsAllowedMIMEType reports whether mimeType is an accepted image type.
// Parameters such as "; charset=binary" are ignored.
func IsAllowedMIMEType(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	for _, allowed := range AllowedMIMETypes {
		if base == allowed {
			return true
		}
	}
	return false
}

// ValidateImages splits images into the accepted ones and an aggregated
// error describing every rejected file. Each rejection is an *ImageError
// inside a *multierror.Error. The returned error is nil when all
// images are accepted. When too many images are given, or none of them is
// acceptable, accepted is nil.
func ValidateImages(images []Image) ([]Image, error) {
	if len(images) > MaxImagesPerBatch {
		return nil, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyImages, len(images), MaxImagesPerBatch)
	}

	var (
		accepted []Image
		result   *multierror.Error
	)
	for _, img := range images {
		if err := img.Validate(); err != nil {
			result = multierror.Append(result, NewImageError(img.Name, err))
			continue
		}
		accepted = append(accepted, img)
	}

	if len(accepted) == 0 {
		if result == nil {
			return nil, ErrNoImages
		}
		return nil, fmt.Errorf("%w: %w", ErrNoImages, result.ErrorOrNil())
	}

	return accepted, result.ErrorOrNil()
}

// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyID is returned when a history item has no identifier.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrEmptyFileName is returned when an image or record has no file name.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrInvalidTitleCount is returned when the requested title count is out of range.
	ErrInvalidTitleCount = errors.New("invalid title count")

	// ErrNoImages is returned when a batch contains no acceptable image.
	ErrNoImages = errors.New("no valid images")

	// ErrTooManyImages is returned when a batch exceeds MaxImagesPerBatch.
	ErrTooManyImages = errors.New("too many images")

	// ErrUnsupportedType is returned for uploads that are not JPEG, PNG or WebP.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrImageTooLarge is returned for uploads above MaxImageBytes.
	ErrImageTooLarge = errors.New("image too large")

	// ErrEmptyImage is returned for zero-byte uploads.
	ErrEmptyImage = errors.New("image is empty")
)

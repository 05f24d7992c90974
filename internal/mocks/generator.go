package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateMetadataFn allows test cases to mock the GenerateMetadata behavior
	GenerateMetadataFn func(ctx context.Context, img domain.Image, titleCount int) (*domain.StockMetadata, error)

	// Default response values. When Metadata is nil and Err is nil, valid
	// metadata is built for the requested title count.
	Metadata *domain.StockMetadata
	Err      error

	// Call tracking for verification
	GenerateMetadataCalls struct {
		// mu protects the call tracking state for concurrent callers
		mu sync.Mutex

		// Count tracks how many times GenerateMetadata was called
		Count int

		// FileNames contains the image names passed to GenerateMetadata calls
		FileNames []string

		// TitleCounts contains the title counts passed to GenerateMetadata calls
		TitleCounts []int
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateMetadata implements the generation.Generator interface
func (m *MockGenerator) GenerateMetadata(
	ctx context.Context,
	img domain.Image,
	titleCount int,
) (*domain.StockMetadata, error) {
	// Track call details for verification
	m.GenerateMetadataCalls.mu.Lock()
	m.GenerateMetadataCalls.Count++
	m.GenerateMetadataCalls.FileNames = append(m.GenerateMetadataCalls.FileNames, img.Name)
	m.GenerateMetadataCalls.TitleCounts = append(m.GenerateMetadataCalls.TitleCounts, titleCount)
	m.GenerateMetadataCalls.mu.Unlock()

	// Use custom function if provided
	if m.GenerateMetadataFn != nil {
		return m.GenerateMetadataFn(ctx, img, titleCount)
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Metadata != nil {
		meta := *m.Metadata
		return &meta, nil
	}
	return SampleMetadata(img.Name, titleCount), nil
}

// CallCount returns the number of GenerateMetadata calls so far.
func (m *MockGenerator) CallCount() int {
	m.GenerateMetadataCalls.mu.Lock()
	defer m.GenerateMetadataCalls.mu.Unlock()
	return m.GenerateMetadataCalls.Count
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		Err: err,
	}
}

// MockGeneratorWithTransientFailure creates a MockGenerator that simulates a transient failure
func MockGeneratorWithTransientFailure() *MockGenerator {
	return &MockGenerator{
		Err: generation.ErrTransientFailure,
	}
}

// MockGeneratorWithContentBlocked creates a MockGenerator that simulates content being blocked
func MockGeneratorWithContentBlocked() *MockGenerator {
	return &MockGenerator{
		Err: generation.ErrContentBlocked,
	}
}

// SampleMetadata builds valid metadata whose titles mention name.
func SampleMetadata(name string, titleCount int) *domain.StockMetadata {
	meta := &domain.StockMetadata{
		Titles:   make([]string, titleCount),
		Keywords: make([]string, domain.KeywordCount),
	}
	for i := range meta.Titles {
		meta.Titles[i] = fmt.Sprintf("%s title %d", name, i+1)
	}
	for i := range meta.Keywords {
		meta.Keywords[i] = fmt.Sprintf("keyword%d", i+1)
	}
	return meta
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateMetadataCalls.mu.Lock()
	defer m.GenerateMetadataCalls.mu.Unlock()

	m.GenerateMetadataCalls.Count = 0
	m.GenerateMetadataCalls.FileNames = nil
	m.GenerateMetadataCalls.TitleCounts = nil
}

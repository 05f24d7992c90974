// Package mocks provides test doubles shared by the service and CLI tests.
//
// MockGenerator implements generation.Generator. It returns metadata built by
// SampleMetadata unless a fixed Metadata, an Err or a GenerateMetadataFn is
// set, and records every call so tests can check file names and title counts.
// NewMockGeneratorWithError and the MockGeneratorWith* helpers preset Err.
//
// MockHistoryStore implements history.Store in memory. SaveErr makes Save
// fail without storing the item.
//
//	gen := &mocks.MockGenerator{
//	    GenerateMetadataFn: func(ctx context.Context, img domain.Image, titleCount int) (*domain.StockMetadata, error) {
//	        return nil, generation.ErrContentBlocked
//	    },
//	}
//	svc, err := service.NewAnalysisService(gen, mocks.NewMockHistoryStore(), service.Config{}, logger)
package mocks

package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/stock-seo/internal/batch"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/export"
	"github.com/phrazzld/stock-seo/internal/generation"
	"github.com/phrazzld/stock-seo/internal/mocks"
	"github.com/phrazzld/stock-seo/internal/service"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTextToStdout(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	writePNG(t, ta.app.fs, "/photos/b.png")

	err := ta.run("analyze", "--titles", "3", "/photos/a.png", "/photos/b.png")

	require.NoError(t, err)
	out := ta.stdout.String()
	assert.Contains(t, out, "=== a.png ===")
	assert.Contains(t, out, "3. a.png title 3")
	assert.Contains(t, out, "=== b.png ===")
	assert.Less(t, strings.Index(out, "a.png"), strings.Index(out, "b.png"), "results keep input order")

	errOut := ta.stderr.String()
	assert.Contains(t, errOut, "Progress: 2/2 (100.0%)")
	assert.Contains(t, errOut, "Total images: 2")
	assert.Contains(t, errOut, "Successful: 2 (100.0%)")

	assert.Equal(t, 1, ta.factory)
	assert.Equal(t, 2, ta.generator.CallCount())
	assert.Equal(t, []int{3, 3}, ta.generator.GenerateMetadataCalls.TitleCounts)

	items, err := ta.app.history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, strings.HasPrefix(item.ThumbnailDataURL, "data:image/jpeg;base64,"))
		assert.Len(t, item.Metadata.Titles, 3)
	}
}

func TestAnalyzeCSVToDirectory(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	require.NoError(t, ta.app.fs.MkdirAll("/exports", 0o755))

	err := ta.run("analyze", "-f", "csv", "-o", "/exports", "--progress=false", "/photos/a.png")

	require.NoError(t, err)
	assert.Empty(t, ta.stdout.String())
	assert.NotContains(t, ta.stderr.String(), "Progress:")

	data, err := afero.ReadFile(ta.app.fs, "/exports/adobe-stock-seo-2025-06-01.csv")
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "File Name,Title 1,Title 2,Title 3,Title 4,Title 5,Keywords", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"a.png","a.png title 1"`))
	assert.Contains(t, ta.stderr.String(), "Wrote /exports/adobe-stock-seo-2025-06-01.csv")
}

func TestAnalyzeJSONToFile(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")

	err := ta.run("analyze", "--format", "json", "--output", "/out/results.json", "/photos/a.png")

	require.NoError(t, err)
	data, err := afero.ReadFile(ta.app.fs, "/out/results.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fileName": "a.png"`)
	assert.Contains(t, string(data), `"previewUrl": "data:image/jpeg;base64,`)
}

func TestAnalyzePartialFailure(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	writePNG(t, ta.app.fs, "/photos/b.png")
	ta.generator.GenerateMetadataFn = func(ctx context.Context, img domain.Image, titleCount int) (*domain.StockMetadata, error) {
		if img.Name == "b.png" {
			return nil, generation.ErrContentBlocked
		}
		return mocks.SampleMetadata(img.Name, titleCount), nil
	}

	err := ta.run("analyze", "/photos/a.png", "/photos/b.png")

	require.NoError(t, err, "a partially failed batch is not a command error")
	assert.Contains(t, ta.stdout.String(), "=== a.png ===")
	assert.NotContains(t, ta.stdout.String(), "=== b.png ===")

	errOut := ta.stderr.String()
	assert.Contains(t, errOut, "Failed images:")
	assert.Contains(t, errOut, "b.png: "+generation.ErrContentBlocked.Error())
	assert.Contains(t, errOut, "Successfully processed 1 image(s), but 1 failed.")

	items, err := ta.app.history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a.png", items[0].FileName)
}

func TestAnalyzeAllFailed(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	writePNG(t, ta.app.fs, "/photos/b.png")
	ta.generator.Err = errors.New("service unavailable")

	err := ta.run("analyze", "/photos/a.png", "/photos/b.png")

	assert.ErrorIs(t, err, errAnalysisFailed)
	assert.Empty(t, ta.stdout.String())
	assert.Contains(t, ta.stderr.String(), "Failed to process all 2 image(s).")
}

func TestAnalyzeUnreadableAndRejectedFiles(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	require.NoError(t, afero.WriteFile(ta.app.fs, "/photos/notes.txt", []byte("just some notes"), 0o644))

	err := ta.run("analyze", "/photos/a.png", "/photos/missing.png", "/photos/notes.txt")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, ta.generator.GenerateMetadataCalls.FileNames)

	errOut := ta.stderr.String()
	assert.Contains(t, errOut, "Unreadable files:")
	assert.Contains(t, errOut, "missing.png:")
	assert.Contains(t, errOut, "Rejected files:")
	assert.Contains(t, errOut, "notes.txt:")
	assert.Contains(t, errOut, "Total images: 1")
}

func TestAnalyzeNoReadableImages(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run("analyze", "/photos/missing.png")

	assert.ErrorIs(t, err, service.ErrNoImages)
	assert.Zero(t, ta.factory, "the generator is not created without images")
	assert.Contains(t, ta.stderr.String(), "missing.png")
}

func TestAnalyzeNoHistory(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")

	err := ta.run("analyze", "--no-history", "/photos/a.png")

	require.NoError(t, err)
	items, err := ta.app.history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAnalyzeGeneratorFactoryError(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	ta.app.newGenerator = func(ctx context.Context) (generation.Generator, error) {
		return nil, generation.ErrInvalidConfig
	}

	err := ta.run("analyze", "/photos/a.png")

	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestAnalyzeInvalidFlags(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown format",
			args:    []string{"--format", "xml"},
			wantErr: export.ErrUnsupportedFormat,
		},
		{
			name:    "unknown strategy",
			args:    []string{"--strategy", "random"},
			wantMsg: "invalid strategy",
		},
		{
			name:    "too many titles",
			args:    []string{"--titles", "21"},
			wantErr: domain.ErrInvalidTitleCount,
		},
		{
			name:    "negative concurrency",
			args:    []string{"-j", "-1"},
			wantErr: batch.ErrInvalidConcurrency,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTestApp(t)
			writePNG(t, ta.app.fs, "/photos/a.png")

			args := append([]string{"analyze"}, tc.args...)
			err := ta.run(append(args, "/photos/a.png")...)

			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
			assert.Zero(t, ta.generator.CallCount())
		})
	}
}

func TestAnalyzeRequiresFiles(t *testing.T) {
	ta := newTestApp(t)

	err := ta.run("analyze")

	assert.Error(t, err)
}

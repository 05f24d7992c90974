// Package export renders analysis results in the formats stock agencies and
// users work with: CSV for bulk upload sheets, JSON for tooling and plain
// text for copy and paste.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/stock-seo/internal/domain"
)

var (
	// ErrNoResults is returned when there is nothing to export.
	ErrNoResults = errors.New("no results to export")

	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Format identifies an export format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// filenamePrefix names exported files.
const filenamePrefix = "adobe-stock-seo"

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (use csv, json or text)", ErrUnsupportedFormat, name)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Filename returns the default export file name for the given day,
// e.g. adobe-stock-seo-2025-06-01.csv. The date is taken in UTC.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", filenamePrefix, now.UTC().Format(time.DateOnly), format.Extension())
}

// Render formats results in the given format.
func Render(format Format, results []domain.ImageResult) (string, error) {
	switch format {
	case FormatCSV:
		return CSV(results)
	case FormatJSON:
		return JSON(results)
	case FormatText:
		return Text(results)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// CSV renders one row per result. The header has one title column per title
// of the result with the most titles; shorter rows are padded with empty
// fields. Every field is quoted and keywords are joined with ", ".
func CSV(results []domain.ImageResult) (string, error) {
	if len(results) == 0 {
		return "", ErrNoResults
	}

	maxTitles := 1
	for _, r := range results {
		maxTitles = max(maxTitles, len(r.Metadata.Titles))
	}

	header := make([]string, 0, maxTitles+2)
	header = append(header, "File Name")
	for i := 1; i <= maxTitles; i++ {
		header = append(header, "Title "+strconv.Itoa(i))
	}
	header = append(header, "Keywords")

	lines := make([]string, 0, len(results)+1)
	lines = append(lines, strings.Join(header, ","))

	for _, r := range results {
		fields := make([]string, 0, maxTitles+2)
		fields = append(fields, quoteCSV(r.FileName))
		for i := 0; i < maxTitles; i++ {
			title := ""
			if i < len(r.Metadata.Titles) {
				title = r.Metadata.Titles[i]
			}
			fields = append(fields, quoteCSV(title))
		}
		fields = append(fields, quoteCSV(strings.Join(r.Metadata.Keywords, ", ")))
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n"), nil
}

// JSON renders results as an indented JSON array.
func JSON(results []domain.ImageResult) (string, error) {
	if len(results) == 0 {
		return "", ErrNoResults
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(data), nil
}

// Text renders results as a readable listing of titles and keywords.
func Text(results []domain.ImageResult) (string, error) {
	if len(results) == 0 {
		return "", ErrNoResults
	}

	var lines []string
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("=== %s ===", r.FileName), "", "TITLES:")
		for i, title := range r.Metadata.Titles {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, title))
		}
		lines = append(lines,
			"",
			"KEYWORDS:",
			strings.Join(r.Metadata.Keywords, ", "),
			"",
			"---",
			"",
		)
	}

	return strings.Join(lines, "\n"), nil
}

// FromHistory converts history items into results, using each stored
// thumbnail as the preview.
func FromHistory(items []domain.HistoryItem) []domain.ImageResult {
	results := make([]domain.ImageResult, len(items))
	for i := range items {
		results[i] = items[i].Result()
	}
	return results
}

// quoteCSV wraps s in double quotes, doubling embedded quotes.
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

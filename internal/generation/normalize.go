package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/stock-seo/internal/domain"
)

// NormalizeResponse turns raw model output into metadata with exactly
// titleCount titles and domain.KeywordCount keywords.
//
// The output must be a JSON object holding "titles" and "keywords" arrays.
// Entries are trimmed and empty entries dropped; keywords are also
// lowercased, and non-string entries are converted to their text form.
// Surplus entries are cut and missing ones are padded with placeholders,
// which is logged as a warning.
func NormalizeResponse(raw []byte, titleCount int, logger *slog.Logger) (*domain.StockMetadata, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := domain.ValidateTitleCount(titleCount); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	payload := stripCodeFence(raw)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response JSON: %v", ErrInvalidResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidResponse)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrInvalidResponse)
	}

	rawTitles, ok := body["titles"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: response structure is missing a titles array", ErrInvalidResponse)
	}
	rawKeywords, ok := body["keywords"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: response structure is missing a keywords array", ErrInvalidResponse)
	}

	titles := cleanEntries(rawTitles, strings.TrimSpace)
	keywords := cleanEntries(rawKeywords, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})

	if len(titles) != titleCount {
		logger.Warn("model returned unexpected number of titles",
			"expected", titleCount,
			"received", len(titles))
	}
	if len(keywords) != domain.KeywordCount {
		logger.Warn("model returned unexpected number of keywords",
			"expected", domain.KeywordCount,
			"received", len(keywords))
	}

	metadata := &domain.StockMetadata{
		Titles:   fit(titles, titleCount, func(n int) string { return fmt.Sprintf("Title %d", n) }),
		Keywords: fit(keywords, domain.KeywordCount, func(n int) string { return fmt.Sprintf("keyword%d", n) }),
	}

	if err := metadata.Validate(titleCount); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return metadata, nil
}

// cleanEntries converts entries to strings, applies clean and drops empties.
// JSON nulls are dropped.
func cleanEntries(entries []any, clean func(string) string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		var s string
		switch v := entry.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		default:
			s = fmt.Sprint(v)
		}
		if s = clean(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// fit truncates or pads entries to exactly n items. placeholder receives the
// 1-based position of the missing entry.
func fit(entries []string, n int, placeholder func(int) string) []string {
	if len(entries) >= n {
		return entries[:n]
	}
	out := make([]string, n)
	copy(out, entries)
	for i := len(entries); i < n; i++ {
		out[i] = placeholder(i + 1)
	}
	return out
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes add even when asked for bare JSON.
func stripCodeFence(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return trimmed
	}
	trimmed = bytes.TrimPrefix(trimmed, []byte("```"))
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	} else {
		trimmed = nil
	}
	trimmed = bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte("```"))
	return bytes.TrimSpace(trimmed)
}

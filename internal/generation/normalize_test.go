package generation_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/generation"
	"github.com/phrazzld/stock-seo/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(t *testing.T, titles, keywords any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"titles": titles, "keywords": keywords})
	require.NoError(t, err)
	return raw
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return out
}

func TestNormalizeResponseExactCounts(t *testing.T) {
	t.Parallel()

	raw := response(t, numbered("Golden hour beach", 5), numbered("beach", 48))

	meta, err := generation.NormalizeResponse(raw, 5, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, numbered("Golden hour beach", 5), meta.Titles)
	assert.Equal(t, numbered("beach", 48), meta.Keywords)
}

func TestNormalizeResponseTrimsSurplus(t *testing.T) {
	t.Parallel()

	raw := response(t, numbered("Title", 8), numbered("kw", 60))
	log, buf := logger.GetTestLogger(t)

	meta, err := generation.NormalizeResponse(raw, 3, log)

	require.NoError(t, err)
	assert.Equal(t, []string{"Title 1", "Title 2", "Title 3"}, meta.Titles)
	assert.Len(t, meta.Keywords, domain.KeywordCount)
	assert.Equal(t, "kw 48", meta.Keywords[47])
	assert.Contains(t, buf.String(), "unexpected number of titles")
	assert.Contains(t, buf.String(), "unexpected number of keywords")
}

func TestNormalizeResponsePadsShortfall(t *testing.T) {
	t.Parallel()

	raw := response(t, []string{"Only title"}, numbered("kw", 45))

	meta, err := generation.NormalizeResponse(raw, 3, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"Only title", "Title 2", "Title 3"}, meta.Titles)
	require.Len(t, meta.Keywords, domain.KeywordCount)
	assert.Equal(t, "keyword46", meta.Keywords[45])
	assert.Equal(t, "keyword48", meta.Keywords[47])
}

func TestNormalizeResponseCleansEntries(t *testing.T) {
	t.Parallel()

	keywords := []any{"  Sunset ", "BEACH", "", "   ", nil, 42, true}
	for i := len(keywords); i < 55; i++ {
		keywords = append(keywords, fmt.Sprintf("extra%d", i))
	}
	raw := response(t, []any{"  Calm sea at dusk  ", "", "Waves"}, keywords)

	meta, err := generation.NormalizeResponse(raw, 2, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"Calm sea at dusk", "Waves"}, meta.Titles)
	assert.Equal(t, []string{"sunset", "beach", "42", "true"}, meta.Keywords[:4])
	assert.Len(t, meta.Keywords, domain.KeywordCount)
	for _, kw := range meta.Keywords {
		assert.Equal(t, strings.ToLower(kw), kw)
		assert.NotEmpty(t, kw)
	}
}

func TestNormalizeResponseStripsCodeFence(t *testing.T) {
	t.Parallel()

	body := response(t, numbered("Title", 1), numbered("kw", 48))
	raw := []byte("```json\n" + string(body) + "\n```")

	meta, err := generation.NormalizeResponse(raw, 1, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"Title 1"}, meta.Titles)
}

func TestNormalizeResponseRejectsMalformedOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   \n"},
		{name: "not json", raw: "Here are your titles: ..."},
		{name: "json null", raw: "null"},
		{name: "json array", raw: `["a", "b"]`},
		{name: "missing titles", raw: `{"keywords": ["a"]}`},
		{name: "missing keywords", raw: `{"titles": ["a"]}`},
		{name: "titles not array", raw: `{"titles": "a", "keywords": ["a"]}`},
		{name: "keywords not array", raw: `{"titles": ["a"], "keywords": {"a": 1}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			meta, err := generation.NormalizeResponse([]byte(tc.raw), 5, logger.NewTestLogger(t))

			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
			assert.Nil(t, meta)
		})
	}
}

func TestNormalizeResponseRejectsTrailingData(t *testing.T) {
	t.Parallel()

	valid := string(response(t, numbered("Misty forest", 1), numbered("forest", 48)))

	tests := []struct {
		name string
		raw  string
	}{
		{name: "trailing text", raw: valid + " this is not json"},
		{name: "second object", raw: valid + ` {"titles": []}`},
		{name: "trailing bracket", raw: valid + "}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			meta, err := generation.NormalizeResponse([]byte(tc.raw), 1, logger.NewTestLogger(t))

			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
			assert.Nil(t, meta)
		})
	}

	t.Run("trailing whitespace", func(t *testing.T) {
		t.Parallel()

		meta, err := generation.NormalizeResponse([]byte(valid+"\n\n"), 1, logger.NewTestLogger(t))

		require.NoError(t, err)
		assert.Equal(t, []string{"Misty forest 1"}, meta.Titles)
	})
}

func TestNormalizeResponseRejectsInvalidTitleCount(t *testing.T) {
	t.Parallel()

	raw := response(t, numbered("Title", 1), numbered("kw", 48))

	for _, n := range []int{0, 21} {
		meta, err := generation.NormalizeResponse(raw, n, logger.NewTestLogger(t))

		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.ErrorIs(t, err, domain.ErrInvalidTitleCount)
		assert.Nil(t, meta)
	}
}

package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/export"
	"github.com/phrazzld/stock-seo/internal/mocks"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyItem(id, fileName string, ts time.Time) domain.HistoryItem {
	return domain.HistoryItem{
		ID:        id,
		Timestamp: ts,
		FileName:  fileName,
		Metadata:  *mocks.SampleMetadata(fileName, 3),
	}
}

// newHistoryTestApp returns an application whose history holds two items,
// newest first.
func newHistoryTestApp(t *testing.T) (*testApp, *mocks.MockHistoryStore) {
	t.Helper()

	base := time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)
	store := mocks.NewMockHistoryStore(
		historyItem("id-newer", "sunset.jpg", base.Add(time.Hour)),
		historyItem("id-older", "forest.png", base),
	)
	ta := newTestApp(t)
	ta.app.history = store
	return ta, store
}

func TestHistoryList(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		ta, _ := newHistoryTestApp(t)

		require.NoError(t, ta.run("history", "list"))

		out := ta.stdout.String()
		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "id-newer")
		assert.Contains(t, out, "sunset.jpg title 1")
		assert.Less(t, strings.Index(out, "id-newer"), strings.Index(out, "id-older"))
	})

	t.Run("json", func(t *testing.T) {
		ta, _ := newHistoryTestApp(t)

		require.NoError(t, ta.run("history", "list", "--format", "json"))

		var items []domain.HistoryItem
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &items))
		require.Len(t, items, 2)
		assert.Equal(t, "id-newer", items[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		ta := newTestApp(t)
		ta.app.history = mocks.NewMockHistoryStore()

		require.NoError(t, ta.run("history", "list"))

		assert.Empty(t, ta.stdout.String())
		assert.Contains(t, ta.stderr.String(), "History is empty")
	})

	t.Run("unknown format", func(t *testing.T) {
		ta, _ := newHistoryTestApp(t)

		err := ta.run("history", "list", "-f", "yaml")

		assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
	})
}

func TestHistoryDelete(t *testing.T) {
	t.Run("existing item", func(t *testing.T) {
		ta, store := newHistoryTestApp(t)

		require.NoError(t, ta.run("history", "delete", "id-older"))

		items, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "id-newer", items[0].ID)
		assert.Contains(t, ta.stderr.String(), "Deleted id-older (1 item(s) left)")
	})

	t.Run("unknown item", func(t *testing.T) {
		ta, store := newHistoryTestApp(t)

		err := ta.run("history", "delete", "nope")

		assert.ErrorIs(t, err, errHistoryItemNotFound)
		items, listErr := store.List(context.Background())
		require.NoError(t, listErr)
		assert.Len(t, items, 2)
	})
}

func TestHistoryClear(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		ta, store := newHistoryTestApp(t)

		err := ta.run("history", "clear")

		assert.ErrorIs(t, err, errClearNotConfirmed)
		items, listErr := store.List(context.Background())
		require.NoError(t, listErr)
		assert.Len(t, items, 2)
	})

	t.Run("confirmed", func(t *testing.T) {
		ta, store := newHistoryTestApp(t)

		require.NoError(t, ta.run("history", "clear", "--yes"))

		items, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestHistoryExport(t *testing.T) {
	t.Run("csv to stdout", func(t *testing.T) {
		ta, _ := newHistoryTestApp(t)

		require.NoError(t, ta.run("history", "export"))

		out := ta.stdout.String()
		assert.Contains(t, out, "File Name,Title 1,Title 2,Title 3,Keywords")
		assert.Contains(t, out, `"sunset.jpg","sunset.jpg title 1"`)
		assert.Less(t, strings.Index(out, "sunset.jpg"), strings.Index(out, "forest.png"))
	})

	t.Run("text to directory", func(t *testing.T) {
		ta, _ := newHistoryTestApp(t)
		require.NoError(t, ta.app.fs.MkdirAll("/exports", 0o755))

		require.NoError(t, ta.run("history", "export", "-f", "txt", "-o", "/exports"))

		data, err := afero.ReadFile(ta.app.fs, "/exports/adobe-stock-seo-2025-06-01.txt")
		require.NoError(t, err)
		assert.Contains(t, string(data), "=== forest.png ===")
	})

	t.Run("empty history", func(t *testing.T) {
		ta := newTestApp(t)
		ta.app.history = mocks.NewMockHistoryStore()

		err := ta.run("history", "export")

		assert.ErrorIs(t, err, export.ErrNoResults)
	})
}

func TestHistoryInfo(t *testing.T) {
	ta := newTestApp(t)
	writePNG(t, ta.app.fs, "/photos/a.png")
	require.NoError(t, ta.run("analyze", "--progress=false", "/photos/a.png"))
	ta.stdout.Reset()

	require.NoError(t, ta.run("history", "info"))

	out := ta.stdout.String()
	assert.Contains(t, out, "Items: 1/50")
	assert.Contains(t, out, "/5242880 bytes")
	assert.NotContains(t, out, "nearly full")
}

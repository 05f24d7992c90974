package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/phrazzld/stock-seo/internal/config"
	"github.com/phrazzld/stock-seo/internal/generation"
	"github.com/phrazzld/stock-seo/internal/mocks"
	"github.com/phrazzld/stock-seo/internal/platform/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp bundles an application wired to in-memory dependencies.
type testApp struct {
	app       *application
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	generator *mocks.MockGenerator
	factory   int
}

// newTestApp creates an application on an in-memory filesystem. The history
// is the real file store, built by initialize on that filesystem.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Default()
	cfg.History.Path = "/data/history.json"
	cfg.Batch.Concurrency = 2

	ta := &testApp{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		generator: &mocks.MockGenerator{},
	}
	ta.app = newApplication(ta.stdout, ta.stderr)
	ta.app.fs = afero.NewMemMapFs()
	ta.app.config = cfg
	ta.app.logger = logger.NewTestLogger(t)
	ta.app.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	ta.app.newGenerator = func(ctx context.Context) (generation.Generator, error) {
		ta.factory++
		return ta.generator, nil
	}
	return ta
}

// run executes the command line args against the application.
func (ta *testApp) run(args ...string) error {
	cmd := newRootCmd(ta.app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// writePNG stores a small solid PNG at path.
func writePNG(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, afero.WriteFile(fsys, path, buf.Bytes(), 0o644))
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp(t)
	// version must not need configuration
	ta.app.config = nil

	err := ta.run("version")

	require.NoError(t, err)
	assert.Contains(t, ta.stdout.String(), "stockseo dev")
	assert.Nil(t, ta.app.history, "version should not initialize the application")
}

func TestInitialize(t *testing.T) {
	t.Run("wires history and generator factory", func(t *testing.T) {
		app := newApplication(&bytes.Buffer{}, &bytes.Buffer{})
		app.fs = afero.NewMemMapFs()
		app.config = config.Default()
		app.config.History.Path = "/data/history.json"
		app.logger = logger.NewTestLogger(t)

		require.NoError(t, app.initialize())

		assert.NotNil(t, app.history)
		assert.NotNil(t, app.newGenerator)
	})

	t.Run("log level override", func(t *testing.T) {
		app := newApplication(&bytes.Buffer{}, &bytes.Buffer{})
		app.fs = afero.NewMemMapFs()
		app.config = config.Default()
		app.config.History.Path = "/data/history.json"
		app.logger = logger.NewTestLogger(t)
		app.logLevel = "debug"

		require.NoError(t, app.initialize())

		assert.Equal(t, "debug", app.config.Log.Level)
	})

	t.Run("invalid log level", func(t *testing.T) {
		ta := newTestApp(t)

		err := ta.run("--log-level", "loud", "history", "list")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("generator needs an API key", func(t *testing.T) {
		app := newApplication(&bytes.Buffer{}, &bytes.Buffer{})
		app.fs = afero.NewMemMapFs()
		app.config = config.Default()
		app.config.History.Path = "/data/history.json"
		app.logger = logger.NewTestLogger(t)
		require.NoError(t, app.initialize())

		g, err := app.newGenerator(context.Background())

		assert.Nil(t, g)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

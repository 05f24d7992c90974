package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/stock-seo/internal/config"
	"github.com/phrazzld/stock-seo/internal/generation"
	"github.com/phrazzld/stock-seo/internal/history"
	"github.com/phrazzld/stock-seo/internal/platform/gemini"
	"github.com/phrazzld/stock-seo/internal/platform/logger"
	"github.com/spf13/afero"
)

// GeneratorFactory creates the metadata generator. It is only invoked by
// commands that call the model, so history commands work without an API key.
type GeneratorFactory func(ctx context.Context) (generation.Generator, error)

// application holds the dependencies shared by all commands.
// Fields that are already set when initialize runs are kept, which lets
// tests inject configuration, stores and generators.
type application struct {
	configFile string
	logLevel   string

	config       *config.Config
	logger       *slog.Logger
	fs           afero.Fs
	history      history.Store
	newGenerator GeneratorFactory
	now          func() time.Time

	stdout io.Writer
	stderr io.Writer
}

// newApplication creates an application using the operating system
// filesystem and the given output streams.
func newApplication(stdout, stderr io.Writer) *application {
	return &application{
		fs:     afero.NewOsFs(),
		now:    time.Now,
		stdout: stdout,
		stderr: stderr,
	}
}

// initialize loads configuration, sets up logging and wires the history
// store and the generator factory.
func (a *application) initialize() error {
	if a.config == nil {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		a.config = cfg
	}

	if a.logLevel != "" {
		if _, ok := logger.ParseLevel(a.logLevel); !ok {
			return fmt.Errorf("invalid log level %q (use debug, info, warn or error)", a.logLevel)
		}
		a.config.Log.Level = a.logLevel
	}

	if a.logger == nil {
		l, err := logger.Setup(a.config.Log)
		if err != nil {
			return fmt.Errorf("failed to set up logger: %w", err)
		}
		a.logger = l
	}

	a.logger.Debug("configuration loaded",
		"model", a.config.LLM.ModelName,
		"concurrency", a.config.Batch.Concurrency,
		"title_count", a.config.Batch.TitleCount,
		"strategy", a.config.Batch.Strategy,
		"history_path", a.config.History.Path,
		"api_key_present", a.config.LLM.GeminiAPIKey != "")

	if a.history == nil {
		store, err := history.NewFileStore(a.fs, a.config.History, a.logger)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		a.history = store
	}

	if a.newGenerator == nil {
		a.newGenerator = func(ctx context.Context) (generation.Generator, error) {
			g, err := gemini.NewGenerator(ctx, a.logger, a.config.LLM)
			if err != nil {
				return nil, err
			}
			return g, nil
		}
	}

	return nil
}

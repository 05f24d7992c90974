package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "STOCKSEO"

// Default values applied before files and environment variables.
const (
	DefaultModelName      = "gemini-2.5-flash"
	DefaultMaxRetries     = 3
	DefaultRetryDelayMs   = 1000
	DefaultConcurrency    = 3
	DefaultTitleCount     = 5
	DefaultThumbnailWidth = 300
	DefaultMaxHistory     = 50
	DefaultQuotaBytes     = 5 * 1024 * 1024

	// DefaultLogLevel keeps the terminal quiet while progress is printed.
	DefaultLogLevel = "warn"
)

// Load reads configuration from an optional config file and environment
// variables. Environment variables take precedence over values from config
// files. When configFile is empty, config.yaml is looked up in the working
// directory and in $HOME/.stockseo; a missing file is not an error.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".stockseo"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The key is usually exported under its provider name.
	if err := v.BindEnv("llm.gemini_api_key",
		EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct constraints on a Config.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Default returns a Config populated with default values only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults are plain scalars, decoding them cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// DefaultHistoryPath returns the history file location under the user's
// home directory, falling back to the working directory.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".stockseo", "history.json")
	}
	return filepath.Join(home, ".stockseo", "history.json")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", DefaultModelName)
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.max_retries", DefaultMaxRetries)
	v.SetDefault("llm.retry_delay_ms", DefaultRetryDelayMs)

	v.SetDefault("batch.concurrency", DefaultConcurrency)
	v.SetDefault("batch.title_count", DefaultTitleCount)
	v.SetDefault("batch.strategy", "waves")
	v.SetDefault("batch.thumbnail_width", DefaultThumbnailWidth)

	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.max_items", DefaultMaxHistory)
	v.SetDefault("history.quota_bytes", DefaultQuotaBytes)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

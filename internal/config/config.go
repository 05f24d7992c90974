package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Batch   BatchConfig   `mapstructure:"batch"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey is only required by commands that call the model, so it is
	// checked by the generator rather than here.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	ModelName string `mapstructure:"model_name" validate:"required"`

	// PromptTemplatePath optionally overrides the built-in prompt.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	MaxRetries       int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelayMillis int `mapstructure:"retry_delay_ms" validate:"gte=0"`
}

// RetryDelay returns the base retry delay as a time.Duration.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

// BatchConfig controls how many images are analyzed at once and what is
// requested for each of them.
type BatchConfig struct {
	Concurrency    int    `mapstructure:"concurrency" validate:"gte=1,lte=20"`
	TitleCount     int    `mapstructure:"title_count" validate:"gte=1,lte=20"`
	Strategy       string `mapstructure:"strategy" validate:"oneof=waves pipelined"`
	ThumbnailWidth int    `mapstructure:"thumbnail_width" validate:"gte=16,lte=2048"`
}

// HistoryConfig contains the local history store settings.
type HistoryConfig struct {
	Path       string `mapstructure:"path" validate:"required"`
	MaxItems   int    `mapstructure:"max_items" validate:"gte=1,lte=1000"`
	QuotaBytes int64  `mapstructure:"quota_bytes" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`

	// File enables a rotated log file in addition to stderr when set.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/phrazzld/stock-seo/internal/config"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/generation"
	"github.com/phrazzld/stock-seo/internal/platform/logger"
	"github.com/phrazzld/stock-seo/internal/redact"
	"google.golang.org/genai"
)

// responseMIMEType asks the model for bare JSON output.
const responseMIMEType = "application/json"

// ContentGenerator is the part of the genai client the Generator uses.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements the generation.Generator interface using
// Google's Gemini API to write metadata for images.
type Generator struct {
	logger         *slog.Logger
	client         ContentGenerator
	model          string
	promptTemplate *template.Template
	retry          generation.RetryPolicy
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator backed by a real Gemini client.
// A missing API key is reported as generation.ErrInvalidConfig.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty, set GEMINI_API_KEY",
			generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return NewGeneratorWithClient(logger, cfg, client.Models)
}

// NewGeneratorWithClient creates a Generator that sends requests through
// client. It does not require an API key.
func NewGeneratorWithClient(logger *slog.Logger, cfg config.LLMConfig, client ContentGenerator) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	return &Generator{
		logger:         logger.With("component", "gemini_generator"),
		client:         client,
		model:          cfg.ModelName,
		promptTemplate: tmpl,
		retry: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryDelay(),
		},
	}, nil
}

// GenerateMetadata implements generation.Generator.
func (g *Generator) GenerateMetadata(
	ctx context.Context,
	img domain.Image,
	titleCount int,
) (*domain.StockMetadata, error) {
	if err := domain.ValidateTitleCount(titleCount); err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidConfig, err)
	}
	if img.Size() == 0 {
		return nil, fmt.Errorf("%w: %w", generation.ErrGenerationFailed, domain.ErrEmptyImage)
	}

	prompt, err := renderPrompt(g.promptTemplate, titleCount)
	if err != nil {
		return nil, err
	}

	// Callers such as the analysis service attach a per-file logger to ctx.
	log := logger.FromContextOrDefault(ctx, g.logger.With("file_name", img.Name)).
		With("title_count", titleCount)
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType}},
		},
	}}
	reqConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   responseSchema(titleCount),
	}

	var text string
	err = g.retry.Do(ctx, log, func(ctx context.Context) error {
		log.DebugContext(ctx, "calling Gemini API", "model", g.model, "image_bytes", img.Size())

		resp, err := g.client.GenerateContent(ctx, g.model, contents, reqConfig)
		if err != nil {
			return classifyAPIError(err)
		}

		text, err = responseText(resp)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "metadata generation failed", "error", redact.Error(err))
		return nil, err
	}

	metadata, err := generation.NormalizeResponse([]byte(text), titleCount, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to parse Gemini response",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	log.InfoContext(ctx, "metadata generated",
		"titles", len(metadata.Titles),
		"keywords", len(metadata.Keywords))
	return metadata, nil
}

// responseText extracts the text of the first candidate, mapping empty and
// blocked responses to generation errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" &&
		resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// classifyAPIError wraps a client error. Failures that retrying cannot fix,
// such as a rejected API key, become ErrGenerationFailed; everything else is
// treated as transient.
func classifyAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := redact.String(err.Error())
	if generation.IsPermanent(err) {
		return fmt.Errorf("%w: %s", generation.ErrGenerationFailed, msg)
	}
	return fmt.Errorf("%w: gemini API call failed: %s", generation.ErrTransientFailure, msg)
}

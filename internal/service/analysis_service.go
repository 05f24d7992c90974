package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/stock-seo/internal/batch"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/generation"
	"github.com/phrazzld/stock-seo/internal/history"
	"github.com/phrazzld/stock-seo/internal/imaging"
	"github.com/phrazzld/stock-seo/internal/platform/logger"
)

// Default batch settings.
const (
	DefaultConcurrency = 3
)

// ThumbnailFunc produces a preview data URL for an image.
type ThumbnailFunc func(img domain.Image, maxWidth int) (string, error)

// AnalyzeOptions controls a single Analyze call. Zero values fall back to
// the service defaults.
type AnalyzeOptions struct {
	TitleCount  int
	Concurrency int
	OnProgress  batch.ProgressFunc
}

// AnalysisService provides image analysis operations
type AnalysisService interface {
	// Analyze validates images, generates metadata for every accepted image
	// with bounded concurrency, records successes in the history and
	// returns a report in input order. Individual image failures are
	// reported in the Report, not as an error.
	Analyze(ctx context.Context, images []domain.Image, opts AnalyzeOptions) (*Report, error)
}

// Config holds the service defaults.
type Config struct {
	Concurrency    int
	TitleCount     int
	Strategy       batch.Strategy
	ThumbnailWidth int
}

// analysisServiceImpl implements the AnalysisService interface
type analysisServiceImpl struct {
	generator generation.Generator
	history   history.Store
	thumbnail ThumbnailFunc
	cfg       Config
	logger    *slog.Logger
}

// Option customizes the service.
type Option func(*analysisServiceImpl)

// WithThumbnailFunc replaces the thumbnail generator.
func WithThumbnailFunc(fn ThumbnailFunc) Option {
	return func(s *analysisServiceImpl) {
		if fn != nil {
			s.thumbnail = fn
		}
	}
}

// NewAnalysisService creates a new AnalysisService.
// store may be nil, in which case results are not recorded.
func NewAnalysisService(
	generator generation.Generator,
	store history.Store,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) (AnalysisService, error) {
	if generator == nil {
		return nil, NewAnalysisServiceError("create_service", "generator cannot be nil", nil)
	}

	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.TitleCount <= 0 {
		cfg.TitleCount = domain.DefaultTitleCount
	}
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = imaging.DefaultThumbnailWidth
	}

	s := &analysisServiceImpl{
		generator: generator,
		history:   store,
		thumbnail: imaging.Thumbnail,
		cfg:       cfg,
		logger:    logger.With("component", "analysis_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Analyze implements AnalysisService.
func (s *analysisServiceImpl) Analyze(
	ctx context.Context,
	images []domain.Image,
	opts AnalyzeOptions,
) (*Report, error) {
	titleCount := opts.TitleCount
	if titleCount == 0 {
		titleCount = s.cfg.TitleCount
	}
	if err := domain.ValidateTitleCount(titleCount); err != nil {
		return nil, NewAnalysisServiceError("analyze", "invalid title count", err)
	}

	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = s.cfg.Concurrency
	}
	strategy := s.cfg.Strategy

	accepted, err := domain.ValidateImages(images)
	rejected := rejections(err)
	if accepted == nil {
		if errors.Is(err, domain.ErrNoImages) || errors.Is(err, domain.ErrTooManyImages) {
			return nil, NewAnalysisServiceError("analyze", ErrNoImages.Error(), err)
		}
		return nil, NewAnalysisServiceError("analyze", "image validation failed", err)
	}
	for _, r := range rejected {
		s.logger.WarnContext(ctx, "image rejected", "file_name", r.FileName, "reason", r.Message)
	}

	s.logger.InfoContext(ctx, "starting analysis",
		"images", len(accepted),
		"rejected", len(rejected),
		"title_count", titleCount,
		"concurrency", concurrency,
		"strategy", strategy.String())

	worker := func(ctx context.Context, img domain.Image, index int) (domain.ImageResult, error) {
		return s.analyzeOne(ctx, img, index, len(accepted), titleCount)
	}

	outcomes, err := batch.Run(ctx, accepted, worker, concurrency,
		batch.WithProgress(opts.OnProgress),
		batch.WithStrategy(strategy),
		batch.WithLogger(s.logger),
	)
	if err != nil {
		return nil, NewAnalysisServiceError("analyze", "invalid batch configuration", err)
	}

	report := &Report{
		Results:  []domain.ImageResult{},
		Failures: []domain.ImageError{},
		Rejected: rejected,
		Summary:  batch.Summarize(outcomes),
	}
	for _, o := range outcomes {
		if o.Failed() {
			name := accepted[o.Index].Name
			s.logger.ErrorContext(ctx, "image analysis failed", "file_name", name, "error", o.Err.Message)
			report.Failures = append(report.Failures, *domain.NewImageError(name, o.Err))
			continue
		}
		report.Results = append(report.Results, o.Value)
	}
	report.Message = SummaryMessage(report.Summary)

	s.logger.InfoContext(ctx, "analysis finished",
		"succeeded", report.Summary.Succeeded,
		"failed", report.Summary.Failed)
	return report, nil
}

// analyzeOne generates metadata for img, builds its thumbnail and records
// the result in the history. Thumbnail and history problems are logged and
// do not fail the image.
func (s *analysisServiceImpl) analyzeOne(
	ctx context.Context,
	img domain.Image,
	index, total, titleCount int,
) (domain.ImageResult, error) {
	log := s.logger.With("file_name", img.Name)
	log.DebugContext(ctx, "analyzing image", "position", index+1, "total", total)
	ctx = logger.WithLogger(ctx, log)

	metadata, err := s.generator.GenerateMetadata(ctx, img, titleCount)
	if err != nil {
		return domain.ImageResult{}, err
	}

	thumbnail, err := s.thumbnail(img, s.cfg.ThumbnailWidth)
	if err != nil {
		log.WarnContext(ctx, "could not generate thumbnail", "error", err)
		thumbnail = ""
	}

	if s.history != nil {
		s.record(ctx, log, img.Name, thumbnail, *metadata)
	}

	return domain.ImageResult{
		FileName:   img.Name,
		PreviewURL: thumbnail,
		Metadata:   *metadata,
	}, nil
}

func (s *analysisServiceImpl) record(
	ctx context.Context,
	log *slog.Logger,
	fileName, thumbnail string,
	metadata domain.StockMetadata,
) {
	item, err := domain.NewHistoryItem(fileName, thumbnail, metadata)
	if err != nil {
		log.WarnContext(ctx, "could not create history item", "error", err)
		return
	}
	if _, err := s.history.Save(ctx, *item); err != nil {
		log.WarnContext(ctx, "could not save history item", "error", err)
	}
}

// rejections extracts per-image validation failures from err.
func rejections(err error) []domain.ImageError {
	out := []domain.ImageError{}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return out
	}
	for _, e := range merr.Errors {
		var imgErr *domain.ImageError
		if errors.As(e, &imgErr) {
			out = append(out, *imgErr)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/phrazzld/stock-seo/internal/batch"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/export"
	"github.com/phrazzld/stock-seo/internal/history"
	"github.com/phrazzld/stock-seo/internal/imaging"
	"github.com/phrazzld/stock-seo/internal/service"
	"github.com/spf13/cobra"
)

// errAnalysisFailed is returned when no analyzed image succeeded.
var errAnalysisFailed = errors.New("no image could be analyzed")

type analyzeFlags struct {
	titles       int
	concurrency  int
	strategy     string
	format       string
	output       string
	showProgress bool
	noHistory    bool
}

func newAnalyzeCmd(app *application) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Generate titles and keywords for images",
		Long: `Analyze up to 20 JPEG, PNG or WebP images (10 MiB each) and print
stock titles and 48 keywords for every image. Successful results are
added to the local history unless --no-history is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runAnalyze(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.titles, "titles", "n", 0, "Titles per image: 1, 3, 5, 10, 15 or 20 (default from config)")
	cmd.Flags().IntVarP(&flags.concurrency, "concurrency", "j", 0, "Maximum images analyzed at once (default from config)")
	cmd.Flags().StringVar(&flags.strategy, "strategy", "", "Scheduling strategy: waves or pipelined (default from config)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format: text, csv, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file or directory (default: stdout)")
	cmd.Flags().BoolVar(&flags.showProgress, "progress", true, "Show progress during analysis")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record results in the history")

	return cmd
}

func (a *application) runAnalyze(ctx context.Context, paths []string, flags analyzeFlags) error {
	format, err := export.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	strategyName := a.config.Batch.Strategy
	if flags.strategy != "" {
		if flags.strategy != batch.Waves.String() && flags.strategy != batch.Pipelined.String() {
			return fmt.Errorf("invalid strategy %q (use waves or pipelined)", flags.strategy)
		}
		strategyName = flags.strategy
	}
	if flags.concurrency < 0 {
		return fmt.Errorf("%w: got %d", batch.ErrInvalidConcurrency, flags.concurrency)
	}
	if flags.titles != 0 {
		if err := domain.ValidateTitleCount(flags.titles); err != nil {
			return err
		}
	}

	images, unreadable := a.loadImages(paths)
	if len(images) == 0 {
		printImageErrors(a.stderr, "Unreadable files", unreadable)
		return service.ErrNoImages
	}

	generator, err := a.newGenerator(ctx)
	if err != nil {
		return err
	}

	var store history.Store
	if !flags.noHistory {
		store = a.history
	}

	svc, err := service.NewAnalysisService(generator, store, service.Config{
		Concurrency:    a.config.Batch.Concurrency,
		TitleCount:     a.config.Batch.TitleCount,
		Strategy:       batch.ParseStrategy(strategyName),
		ThumbnailWidth: a.config.Batch.ThumbnailWidth,
	}, a.logger)
	if err != nil {
		return err
	}

	opts := service.AnalyzeOptions{
		TitleCount:  flags.titles,
		Concurrency: flags.concurrency,
	}
	if flags.showProgress {
		opts.OnProgress = progressPrinter(a.stderr)
	}

	report, err := svc.Analyze(ctx, images, opts)
	if flags.showProgress && report != nil && report.Summary.Total > 0 {
		fmt.Fprintln(a.stderr)
	}
	if err != nil {
		printImageErrors(a.stderr, "Unreadable files", unreadable)
		return err
	}

	if len(report.Results) > 0 {
		output, err := export.Render(format, report.Results)
		if err != nil {
			return err
		}
		if err := a.writeExport(format, output, flags.output); err != nil {
			return err
		}
	}

	printImageErrors(a.stderr, "Unreadable files", unreadable)
	printImageErrors(a.stderr, "Rejected files", report.Rejected)
	printImageErrors(a.stderr, "Failed images", report.Failures)
	printSummary(a.stderr, report.Summary, report.Message)

	if report.AllFailed() {
		return errAnalysisFailed
	}
	return nil
}

// loadImages reads every path. Files that cannot be read are returned as
// image errors so the rest of the batch can proceed.
func (a *application) loadImages(paths []string) ([]domain.Image, []domain.ImageError) {
	images := make([]domain.Image, 0, len(paths))
	var unreadable []domain.ImageError
	for _, path := range paths {
		img, err := imaging.LoadImage(a.fs, path)
		if err != nil {
			a.logger.Warn("could not read image", "path", path, "error", err)
			unreadable = append(unreadable, *domain.NewImageError(filepath.Base(path), err))
			continue
		}
		images = append(images, img)
	}
	return images, unreadable
}

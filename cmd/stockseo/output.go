package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/phrazzld/stock-seo/internal/batch"
	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/export"
	"github.com/spf13/afero"
)

// writeExport writes rendered output to dest, or to stdout when dest is
// empty. A dest that names an existing directory receives the default
// export file name for the current day.
func (a *application) writeExport(format export.Format, output, dest string) error {
	if dest == "" {
		if _, err := io.WriteString(a.stdout, output); err != nil {
			return err
		}
		if !strings.HasSuffix(output, "\n") {
			_, err := io.WriteString(a.stdout, "\n")
			return err
		}
		return nil
	}

	if isDir, _ := afero.IsDir(a.fs, dest); isDir || strings.HasSuffix(dest, string(filepath.Separator)) {
		dest = filepath.Join(dest, export.Filename(format, a.now()))
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := afero.WriteFile(a.fs, dest, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	fmt.Fprintf(a.stderr, "Wrote %s\n", dest)
	return nil
}

// progressPrinter returns a progress callback that redraws a single status
// line on w.
func progressPrinter(w io.Writer) batch.ProgressFunc {
	return func(completed, total int) {
		fmt.Fprintf(w, "\rProgress: %d/%d (%.1f%%)",
			completed, total, float64(completed)/float64(total)*100)
	}
}

// printImageErrors lists per-image problems under a heading.
func printImageErrors(w io.Writer, heading string, errs []domain.ImageError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", heading)
	for _, e := range errs {
		fmt.Fprintf(w, "  %s: %s\n", e.FileName, e.Message)
	}
}

// printSummary prints batch counts in the same layout for every format.
func printSummary(w io.Writer, s batch.Summary, message string) {
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Total images: %d\n", s.Total)
	if s.Total > 0 {
		fmt.Fprintf(w, "Successful: %d (%.1f%%)\n", s.Succeeded, float64(s.Succeeded)/float64(s.Total)*100)
		fmt.Fprintf(w, "Failed: %d (%.1f%%)\n", s.Failed, float64(s.Failed)/float64(s.Total)*100)
	}
	if message != "" {
		fmt.Fprintln(w, message)
	}
}

// truncateString shortens s to at most maxLen runes, ending in "...".
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

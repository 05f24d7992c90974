package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/stock-seo/internal/domain"
	"github.com/phrazzld/stock-seo/internal/export"
	"github.com/spf13/cobra"
)

var (
	errHistoryItemNotFound = errors.New("history item not found")
	errClearNotConfirmed   = errors.New("refusing to clear the history without --yes")
)

func newHistoryCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage past analyses",
	}
	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryDeleteCmd(app),
		newHistoryClearCmd(app),
		newHistoryExportCmd(app),
		newHistoryInfoCmd(app),
	)
	return cmd
}

func newHistoryListCmd(app *application) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.history.List(cmd.Context())
			if err != nil {
				return err
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(items, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode history: %w", err)
				}
				_, err = fmt.Fprintln(app.stdout, string(data))
				return err
			case "table":
				if len(items) == 0 {
					fmt.Fprintln(app.stderr, "History is empty")
					return nil
				}
				_, err := fmt.Fprint(app.stdout, historyTable(items))
				return err
			default:
				return fmt.Errorf("%w: %q (use table or json)", export.ErrUnsupportedFormat, format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json")
	return cmd
}

// historyTable renders one line per item with its first title.
func historyTable(items []domain.HistoryItem) string {
	lines := make([]string, 0, len(items)+2)
	lines = append(lines, fmt.Sprintf("%-36s %-20s %-30s %s", "ID", "DATE", "FILE", "TITLE"))
	lines = append(lines, strings.Repeat("-", 120))

	for _, item := range items {
		title := ""
		if len(item.Metadata.Titles) > 0 {
			title = item.Metadata.Titles[0]
		}
		lines = append(lines, fmt.Sprintf("%-36s %-20s %-30s %s",
			item.ID,
			item.Timestamp.Local().Format(time.DateTime),
			truncateString(item.FileName, 30),
			truncateString(title, 50)))
	}

	return strings.Join(lines, "\n") + "\n"
}

func newHistoryDeleteCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			items, err := app.history.List(cmd.Context())
			if err != nil {
				return err
			}
			if !containsItem(items, id) {
				return fmt.Errorf("%w: %s", errHistoryItemNotFound, id)
			}

			remaining, err := app.history.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stderr, "Deleted %s (%d item(s) left)\n", id, len(remaining))
			return nil
		},
	}
}

func containsItem(items []domain.HistoryItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func newHistoryClearCmd(app *application) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errClearNotConfirmed
			}
			if err := app.history.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.stderr, "History cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing the history")
	return cmd
}

func newHistoryExportCmd(app *application) *cobra.Command {
	var formatName, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored analyses as CSV, JSON or text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			items, err := app.history.List(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := export.Render(format, export.FromHistory(items))
			if err != nil {
				return err
			}
			return app.writeExport(format, rendered, output)
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "csv", "Output format: csv, json, text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default: stdout)")
	return cmd
}

func newHistoryInfoCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how full the history is",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.history.Info(cmd.Context())
			if err != nil {
				return err
			}
			usage, err := app.history.Usage(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Items: %d/%d\n", info.ItemCount, info.MaxItems)
			if usage.Total > 0 {
				fmt.Fprintf(app.stdout, "Storage: %d/%d bytes (%.1f%%)\n", usage.Used, usage.Total, usage.Percentage)
			} else {
				fmt.Fprintf(app.stdout, "Storage: %d bytes\n", usage.Used)
			}
			if info.IsNearLimit {
				fmt.Fprintln(app.stdout, "The history is nearly full; the oldest items will be removed first.")
			}
			if usage.Warning {
				fmt.Fprintln(app.stdout, "Storage is nearly full; consider exporting and clearing the history.")
			}
			return nil
		},
	}
}

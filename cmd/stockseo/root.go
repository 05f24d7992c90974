package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree around app.
func newRootCmd(app *application) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stockseo",
		Version: version,
		Short:   "Adobe Stock metadata generator",
		Long: `Generate SEO optimized titles and keywords for stock images with Gemini,
export them as CSV, JSON or text, and keep a local history of past results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize()
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	rootCmd.SetVersionTemplate(versionInfo() + "\n")

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "Config file (default: ./config.yaml or ~/.stockseo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newAnalyzeCmd(app),
		newHistoryCmd(app),
		newVersionCmd(app),
	)
	return rootCmd
}

func newVersionCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(app.stdout, versionInfo())
			return err
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mtcorpus/corpustools/internal/config"
	"github.com/mtcorpus/corpustools/internal/database"
	"github.com/mtcorpus/corpustools/internal/lineio"
	"github.com/mtcorpus/corpustools/internal/report"
	"github.com/mtcorpus/corpustools/internal/stats"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show corpus statistics",
		Long: `Info counts sentences, tokens and vocabulary of a corpus with one sentence
per line and whitespace-separated tokens. It reports the mean and standard
deviation of sentence length, the longest and shortest lines, and a
histogram of sentence lengths.

Examples:
  # Statistics of a file
  corpustools info -i train.en

  # Read from stdin with 10-token histogram buckets
  cat train.en | corpustools info -w 10

  # Count a large corpus on all CPUs
  corpustools info -i train.en -j 0

  # Markdown report saved to the history database
  corpustools info -i train.en --markdown -o stats.md --save`,
		Args: cobra.NoArgs,
		RunE: runInfoCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultInput,
		"Input file (- for stdin)")
	cmd.Flags().Bool("no-histogram", false,
		"Do not print the length histogram")
	cmd.Flags().IntP("histogram-width", "w", config.DefaultHistogramWidth,
		"Number of tokens covered by one histogram bucket")
	cmd.Flags().IntP("raw-size", "r", config.DefaultBarSize,
		"Length of the longest histogram bar")

	cmd.Flags().IntP("jobs", "j", config.DefaultJobs,
		"Number of concurrent workers (0 uses all CPUs)")
	cmd.Flags().Int("batch-lines", config.DefaultBatchLines,
		"Lines per worker batch when jobs > 1")

	cmd.Flags().Bool("json", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("save", false,
		"Save the statistics to the history database")

	return cmd
}

// runInfoCmd executes the info command.
func runInfoCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildInfoConfig(cmd)
	if err != nil {
		return err
	}

	if err := validate(cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	return runInfo(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
}

// buildInfoConfig creates a Config from the config file and info flags.
func buildInfoConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	for _, set := range []func() error{
		func() error { return setIfChanged(cmd, "input", &cfg.Input, flags.GetString) },
		func() error { return setIfChanged(cmd, "no-histogram", &cfg.NoHistogram, flags.GetBool) },
		func() error { return setIfChanged(cmd, "histogram-width", &cfg.HistogramWidth, flags.GetInt) },
		func() error { return setIfChanged(cmd, "raw-size", &cfg.BarSize, flags.GetInt) },
		func() error { return setIfChanged(cmd, "jobs", &cfg.Jobs, flags.GetInt) },
		func() error { return setIfChanged(cmd, "batch-lines", &cfg.BatchLines, flags.GetInt) },
		func() error { return setIfChanged(cmd, "json", &cfg.JSONReport, flags.GetBool) },
		func() error { return setIfChanged(cmd, "markdown", &cfg.MarkdownReport, flags.GetBool) },
		func() error { return setIfChanged(cmd, "output", &cfg.ReportFile, flags.GetString) },
		func() error { return setIfChanged(cmd, "save", &cfg.SaveToDB, flags.GetBool) },
	} {
		if err := set(); err != nil {
			return nil, err
		}
	}

	cfg.Jobs = config.ResolveJobs(cfg.Jobs)
	return cfg, nil
}

// runInfo computes and reports the statistics.
func runInfo(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug("starting statistics",
		"input", cfg.Input,
		"histogramWidth", cfg.HistogramWidth,
		"jobs", cfg.Jobs,
		"batchLines", cfg.BatchLines,
	)

	src, err := lineio.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	acc, err := stats.Collect(ctx, src, stats.Options{
		HistogramWidth: cfg.HistogramWidth,
		Jobs:           cfg.Jobs,
		BatchLines:     cfg.BatchLines,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	summary, err := acc.Summary()
	if err != nil {
		return fmt.Errorf("%s: %w", src.Name(), err)
	}
	summary.Input = src.Name()

	if err := outputReport(stdout, cfg, summary); err != nil {
		return err
	}

	if cfg.SaveToDB {
		return saveSummary(ctx, stderr, cfg, summary, logger)
	}
	return nil
}

// outputReport writes the summary in the configured format.
func outputReport(stdout io.Writer, cfg *config.Config, summary *stats.Summary) (err error) {
	output := stdout
	if cfg.ReportFile != "" {
		w, createErr := lineio.Create(cfg.ReportFile)
		if createErr != nil {
			return fmt.Errorf("failed to create report file: %w", createErr)
		}
		defer func() {
			if closeErr := w.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		output = w
	}

	writer := report.NewWriter(reportFormat(cfg), output, report.Options{
		NoHistogram: cfg.NoHistogram,
		BarSize:     cfg.BarSize,
	})

	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveSummary records the summary in the history database.
func saveSummary(ctx context.Context, stderr io.Writer, cfg *config.Config, summary *stats.Summary, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	run, err := db.SaveSummary(ctx, summary)
	if err != nil {
		return err
	}

	logger.Debug("summary saved", "db", db.Path(), "runId", run.RunID)
	fmt.Fprintf(stderr, "Saved as run %d (%s)\n", run.ID, run.RunID)
	return nil
}

// reportFormat maps the format flags to a report.Format.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mtcorpus/corpustools/internal/database"
	"github.com/mtcorpus/corpustools/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List statistics saved with info --save",
		Long: `History lists the corpus statistics saved in the history database by
"corpustools info --save", newest first.

Examples:
  # List saved runs
  corpustools history

  # Show one saved run as a text report
  corpustools history --show 3

  # Machine-readable listing
  corpustools history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("show", "",
		"Print the saved statistics of one run (row id or run id)")
	cmd.Flags().Bool("json", false,
		"Output JSON")
	cmd.Flags().IntP("limit", "n", 0,
		"Maximum number of runs to list (0 lists all)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	show, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No saved statistics. Run \"corpustools info --save\" first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Debug("database opened", "path", db.Path())

	out := cmd.OutOrStdout()

	if show != "" {
		run, summary, err := db.GetRun(ctx, show)
		if err != nil {
			return err
		}
		if asJSON {
			_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).Write(summary)
			return err
		}
		fmt.Fprintf(out, "run %d (%s) saved %s\ninput: %s\n\n",
			run.ID, run.RunID, run.Timestamp.Format(time.DateTime), run.Input)
		_, err = report.NewWriter(report.FormatText, out, report.Options{BarSize: cfg.BarSize}).Write(summary)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if asJSON {
		if runs == nil {
			runs = []database.Run{}
		}
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(runs)
		return err
	}

	return writeRunTable(out, runs)
}

// writeRunTable lists runs as aligned columns.
func writeRunTable(out io.Writer, runs []database.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No saved statistics.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tINPUT\tSENTENCES\tTOKENS\tVOCABULARY")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			humanize.Time(run.Timestamp),
			run.Input,
			humanize.Comma(int64(run.Sentences)),
			humanize.Comma(int64(run.Tokens)),
			humanize.Comma(int64(run.Vocabulary)),
		)
	}
	return tw.Flush()
}

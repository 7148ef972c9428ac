package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mtcorpus/corpustools/internal/clean"
	"github.com/mtcorpus/corpustools/internal/config"
)

// NewCleanEmptyCmd creates the clean-empty command.
func NewCleanEmptyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean-empty CORPUS L1 L2 CLEAN",
		Short: "Remove sentence pairs with an empty side",
		Long: `Clean-empty copies CORPUS.L1 and CORPUS.L2 to CLEAN.L1 and CLEAN.L2, dropping
every pair in which either side is empty or whitespace only. Kept lines are
copied unchanged.

Examples:
  # Writes train.clean.en and train.clean.de
  corpustools clean-empty train en de train.clean`,
		Args: cobra.ExactArgs(4),
		RunE: runCleanEmptyCmd,
	}
}

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean CORPUS L1 L2 CLEAN MIN MAX",
		Short: "Remove sentence pairs by length and length ratio",
		Long: `Clean copies CORPUS.L1 and CORPUS.L2 to CLEAN.L1 and CLEAN.L2, keeping only
pairs whose sides both have between MIN and MAX tokens and whose token
count ratio does not exceed --ratio in either direction.

Label files aligned with the corpus are filtered together with it: each
--label-ext EXT reads CORPUS.EXT and writes the lines of kept pairs to
CLEAN.EXT.

Examples:
  # Keep pairs of 1 to 250 tokens
  corpustools clean train en de train.clean 1 250

  # Keep domain tags aligned and allow a ratio of at most 3
  corpustools clean train en de train.clean 1 250 --ratio 3 -l tag`,
		Args: cobra.ExactArgs(6),
		RunE: runCleanCmd,
	}

	cmd.Flags().Float64("ratio", config.DefaultRatio,
		"Maximum token count ratio between the two sides")
	cmd.Flags().StringArrayP("label-ext", "l", nil,
		"Extension of an aligned label file (repeatable)")

	return cmd
}

// runCleanEmptyCmd executes the clean-empty command.
func runCleanEmptyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setCorpusArgs(cfg, args)

	// Label files only apply to the length filter.
	cfg.LabelExts = nil

	if err := validate(cfg); err != nil {
		return err
	}

	return runClean(cmd, cfg, clean.EmptyLineFilter{})
}

// runCleanCmd executes the clean command.
func runCleanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCleanConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := validate(cfg); err != nil {
		return err
	}

	return runClean(cmd, cfg, clean.LengthRatioFilter{
		MinLen: cfg.MinLen,
		MaxLen: cfg.MaxLen,
		Ratio:  cfg.Ratio,
	})
}

// buildCleanConfig creates a Config from the config file, arguments and flags.
func buildCleanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	setCorpusArgs(cfg, args)

	if cfg.MinLen, err = strconv.Atoi(args[4]); err != nil {
		return nil, fmt.Errorf("invalid MIN %q: %w", args[4], err)
	}
	if cfg.MaxLen, err = strconv.Atoi(args[5]); err != nil {
		return nil, fmt.Errorf("invalid MAX %q: %w", args[5], err)
	}

	flags := cmd.Flags()
	if err := setIfChanged(cmd, "ratio", &cfg.Ratio, flags.GetFloat64); err != nil {
		return nil, err
	}
	if err := setIfChanged(cmd, "label-ext", &cfg.LabelExts, flags.GetStringArray); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setCorpusArgs copies CORPUS L1 L2 CLEAN into cfg.
func setCorpusArgs(cfg *config.Config, args []string) {
	cfg.Corpus = args[0]
	cfg.SourceLang = args[1]
	cfg.TargetLang = args[2]
	cfg.CleanCorpus = args[3]
}

// runClean filters the corpus and prints the pair counts to stderr.
func runClean(cmd *cobra.Command, cfg *config.Config, filter clean.Filter) error {
	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	cleaner := clean.NewCleaner(filter,
		clean.WithLabels(cfg.LabelExts...),
		clean.WithLogger(logger),
	)

	result, err := cleaner.Run(ctx,
		clean.Corpus{Prefix: cfg.Corpus, Src: cfg.SourceLang, Tgt: cfg.TargetLang},
		clean.Corpus{Prefix: cfg.CleanCorpus, Src: cfg.SourceLang, Tgt: cfg.TargetLang},
	)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), result)
	return nil
}

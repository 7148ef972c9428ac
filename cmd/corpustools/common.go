package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mtcorpus/corpustools/internal/config"
	corpuslog "github.com/mtcorpus/corpustools/internal/log"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the logger for a subcommand and installs it as the
// slog default. Records are tagged with the subcommand name.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := corpuslog.NewLogger(cmd.ErrOrStderr(), verbose).With(corpuslog.ToolKey, cmd.Name())
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// loadConfig builds a Config from defaults and the configuration file.
// If the user explicitly named a file that does not exist, it is an error;
// otherwise a missing file leaves the defaults untouched.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	path := config.FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
		}
		return cfg, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.ApplyFile(file)

	return cfg, nil
}

// setIfChanged copies a flag value into dst when the user set the flag,
// so that explicit flags win over configuration file values.
func setIfChanged[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// validate wraps configuration errors for display.
func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

// bufferedOutput wraps the command's stdout. Callers flush it.
func bufferedOutput(cmd *cobra.Command) *bufio.Writer {
	return bufio.NewWriter(cmd.OutOrStdout())
}

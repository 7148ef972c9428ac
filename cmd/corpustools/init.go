package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mtcorpus/corpustools/internal/config"
)

//go:embed templates/corpustools.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new corpustools configuration file",
		Long: `Initialize creates a new .corpustools.yaml configuration file in the current directory.

The generated file includes the defaults of every subcommand with comments.

Examples:
  # Create .corpustools.yaml in current directory
  corpustools init

  # Create config file at a specific path
  corpustools init -o ~/.config/corpustools/config.yaml

  # Same settings in TOML
  corpustools init -o ~/.config/corpustools/config.toml

  # Force overwrite existing file
  corpustools init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeTemplate(outputPath, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	return nil
}

// writeTemplate writes the configuration template to path. A path ending
// in ".toml" receives the same settings encoded as TOML, without comments.
func writeTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := configTemplate.ReadFile("templates/corpustools.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if content, err = templateAsTOML(content); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// templateAsTOML re-encodes the YAML template as TOML.
func templateAsTOML(content []byte) ([]byte, error) {
	var file config.File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("invalid config template: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# corpustools configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".corpustools.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// InfoSettings holds file defaults for the statistics subcommand.
type InfoSettings struct {
	HistogramWidth int  `yaml:"histogramWidth,omitempty" toml:"histogram_width"`
	BarSize        int  `yaml:"rawSize,omitempty" toml:"raw_size"`
	NoHistogram    bool `yaml:"noHistogram,omitempty" toml:"no_histogram"`
	Jobs           int  `yaml:"jobs,omitempty" toml:"jobs"`
	BatchLines     int  `yaml:"batchLines,omitempty" toml:"batch_lines"`
	Save           bool `yaml:"save,omitempty" toml:"save"`
}

// CleanSettings holds file defaults for the length/ratio cleaner.
type CleanSettings struct {
	Ratio     float64  `yaml:"ratio,omitempty" toml:"ratio"`
	LabelExts []string `yaml:"labelExt,omitempty" toml:"label_ext"`
}

// GPUSettings holds file defaults for the GPU query.
type GPUSettings struct {
	Command string `yaml:"command,omitempty" toml:"command"`
	NumGPUs int    `yaml:"numGPUs,omitempty" toml:"num_gpus"`
}

// File represents the structure of the configuration file.
type File struct {
	Info  InfoSettings  `yaml:"info,omitempty" toml:"info"`
	Clean CleanSettings `yaml:"clean,omitempty" toml:"clean"`
	GPU   GPUSettings   `yaml:"gpu,omitempty" toml:"gpu"`

	// DBDir overrides the history database directory.
	DBDir string `yaml:"dbDir,omitempty" toml:"db_dir"`
}

// LoadConfigFile loads a configuration file.
// Files ending in ".toml" are decoded as TOML, everything else as YAML.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cf); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		return &cf, nil
	}

	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .corpustools.yaml in the current directory
// 3. Look for config.yaml, then config.toml, in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	for _, name := range []string{"config.yaml", "config.toml"} {
		candidate := filepath.Join(XDGConfigDir(), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Input is stdin", func(t *testing.T) {
		t.Parallel()
		if cfg.Input != "-" {
			t.Errorf("expected Input to be '-', got %q", cfg.Input)
		}
	})

	t.Run("default histogram width and bar size are 50", func(t *testing.T) {
		t.Parallel()
		if cfg.HistogramWidth != 50 {
			t.Errorf("expected HistogramWidth 50, got %d", cfg.HistogramWidth)
		}
		if cfg.BarSize != 50 {
			t.Errorf("expected BarSize 50, got %d", cfg.BarSize)
		}
	})

	t.Run("default Ratio is 9", func(t *testing.T) {
		t.Parallel()
		if cfg.Ratio != 9 {
			t.Errorf("expected Ratio 9, got %v", cfg.Ratio)
		}
	})

	t.Run("default counting is sequential", func(t *testing.T) {
		t.Parallel()
		if cfg.Jobs != 1 {
			t.Errorf("expected Jobs 1, got %d", cfg.Jobs)
		}
		if cfg.BatchLines != 10000 {
			t.Errorf("expected BatchLines 10000, got %d", cfg.BatchLines)
		}
	})

	t.Run("default GPU query", func(t *testing.T) {
		t.Parallel()
		if cfg.NumGPUs != 1 {
			t.Errorf("expected NumGPUs 1, got %d", cfg.NumGPUs)
		}
		if cfg.GPUCommand != "nvidia-smi" {
			t.Errorf("expected GPUCommand nvidia-smi, got %q", cfg.GPUCommand)
		}
	})

	t.Run("default DBDir is XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "defaults are valid", modify: func(*Config) {}, want: nil},
		{name: "zero histogram width", modify: func(c *Config) { c.HistogramWidth = 0 }, want: ErrInvalidHistogramWidth},
		{name: "negative bar size", modify: func(c *Config) { c.BarSize = -1 }, want: ErrInvalidBarSize},
		{name: "zero jobs", modify: func(c *Config) { c.Jobs = 0 }, want: ErrInvalidJobs},
		{name: "zero batch lines", modify: func(c *Config) { c.BatchLines = 0 }, want: ErrInvalidBatchLines},
		{
			name: "json and markdown",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			want: ErrConflictingReportFormats,
		},
		{name: "json only", modify: func(c *Config) { c.JSONReport = true }, want: nil},
		{name: "zero ratio", modify: func(c *Config) { c.Ratio = 0 }, want: ErrInvalidRatio},
		{name: "negative min length", modify: func(c *Config) { c.MinLen = -1 }, want: ErrInvalidLengthRange},
		{
			name: "min greater than max",
			modify: func(c *Config) {
				c.MinLen = 10
				c.MaxLen = 5
			},
			want: ErrInvalidLengthRange,
		},
		{
			name: "min equal to max",
			modify: func(c *Config) {
				c.MinLen = 5
				c.MaxLen = 5
			},
			want: nil,
		},
		{name: "blank label extension", modify: func(c *Config) { c.LabelExts = []string{"tag", " "} }, want: ErrEmptyLabelExt},
		{name: "negative GPUs", modify: func(c *Config) { c.NumGPUs = -1 }, want: ErrInvalidNumGPUs},
		{name: "zero GPUs", modify: func(c *Config) { c.NumGPUs = 0 }, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestApplyFile tests that file settings override defaults.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})

	t.Run("non-zero values are copied", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{
			Info:  InfoSettings{HistogramWidth: 10, BarSize: 20, NoHistogram: true, Jobs: 4, BatchLines: 100, Save: true},
			Clean: CleanSettings{Ratio: 3, LabelExts: []string{"tag"}},
			GPU:   GPUSettings{Command: "fake-smi", NumGPUs: 2},
			DBDir: "/tmp/history",
		})

		want := NewConfig()
		want.HistogramWidth = 10
		want.BarSize = 20
		want.NoHistogram = true
		want.Jobs = 4
		want.BatchLines = 100
		want.SaveToDB = true
		want.Ratio = 3
		want.LabelExts = []string{"tag"}
		want.GPUCommand = "fake-smi"
		want.NumGPUs = 2
		want.DBDir = "/tmp/history"

		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{})
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})
}

// TestResolveJobs tests the job count shorthand.
func TestResolveJobs(t *testing.T) {
	t.Parallel()

	if got := ResolveJobs(3); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := ResolveJobs(0); got < 1 {
		t.Errorf("expected at least one CPU, got %d", got)
	}
}

// TestLoadConfigFile tests loading YAML and TOML files.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `info:
  histogramWidth: 25
  rawSize: 40
  jobs: 8
clean:
  ratio: 1.5
  labelExt:
    - tag
    - dom
gpu:
  numGPUs: 2
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			Info:  InfoSettings{HistogramWidth: 25, BarSize: 40, Jobs: 8},
			Clean: CleanSettings{Ratio: 1.5, LabelExts: []string{"tag", "dom"}},
			GPU:   GPUSettings{NumGPUs: 2},
		}
		if diff := cmp.Diff(want, cf); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("loads valid TOML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "config.toml")
		content := `db_dir = "/var/lib/corpustools"

[info]
histogram_width = 5
no_histogram = true

[gpu]
command = "fake-smi"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			Info:  InfoSettings{HistogramWidth: 5, NoHistogram: true},
			GPU:   GPUSettings{Command: "fake-smi"},
			DBDir: "/var/lib/corpustools",
		}
		if diff := cmp.Diff(want, cf); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "invalid YAML") {
			t.Errorf("expected invalid YAML error, got %v", err)
		}
	})

	t.Run("returns error for invalid TOML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "broken.toml")
		if err := os.WriteFile(configPath, []byte("[info\njobs = "), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "invalid TOML") {
			t.Errorf("expected invalid TOML error, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("info: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("expected data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}

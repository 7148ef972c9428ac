package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultInput reads from standard input.
	DefaultInput = "-"

	// DefaultHistogramWidth is the number of tokens covered by one histogram bucket.
	DefaultHistogramWidth = 50

	// DefaultBarSize is the number of tick characters drawn for the fullest bucket.
	DefaultBarSize = 50

	// DefaultJobs counts sequentially. Values above one enable the batched
	// map-reduce over line batches.
	DefaultJobs = 1

	// DefaultBatchLines is the number of lines handed to one statistics worker.
	// 10000 lines keeps per-batch vocabularies small while amortizing
	// goroutine scheduling.
	DefaultBatchLines = 10000

	// DefaultRatio is the maximum token count ratio between the two sides
	// of a sentence pair.
	DefaultRatio = 9.0

	// DefaultNumGPUs is the number of free GPU ids requested.
	DefaultNumGPUs = 1

	// DefaultGPUCommand is the vendor tool queried for GPU state.
	DefaultGPUCommand = "nvidia-smi"

	// AppName is the application name used for XDG directory paths.
	AppName = "corpustools"
)

// Config holds all options for the corpustools subcommands.
// A subcommand only reads the fields that apply to it; unused fields keep
// their defaults and still pass Validate.
type Config struct {
	// Input is the input file path; "-" means standard input.
	Input string

	// ReportFile is the output file path for the statistics report.
	// When empty, the report is written to stdout.
	ReportFile string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicitly requested configuration file.
	ConfigFilePath string

	// NoHistogram suppresses the histogram section of the statistics report.
	NoHistogram bool

	// HistogramWidth is the bucket width in tokens.
	HistogramWidth int

	// BarSize is the length of the longest histogram bar in ticks.
	BarSize int

	// Jobs is the number of concurrent statistics workers.
	Jobs int

	// BatchLines is the number of lines per statistics batch when Jobs > 1.
	BatchLines int

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// SaveToDB records the statistics summary in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/corpustools on Linux).
	DBDir string

	// Corpus is the input corpus prefix; files are Corpus + "." + language.
	Corpus string

	// CleanCorpus is the output corpus prefix.
	CleanCorpus string

	// SourceLang and TargetLang are the two file extensions of a parallel corpus.
	SourceLang string
	TargetLang string

	// MinLen and MaxLen bound the token count of both sides of a kept pair.
	MinLen int
	MaxLen int

	// Ratio bounds the token count ratio between the two sides of a kept pair.
	Ratio float64

	// LabelExts lists auxiliary files aligned with the corpus that are
	// filtered together with it.
	LabelExts []string

	// SplitFWSpace expands full-width spaces inside CoNLL-U word forms.
	SplitFWSpace bool

	// NumGPUs is the number of free GPUs requested.
	NumGPUs int

	// GPUCommand is the executable queried for GPU state.
	GPUCommand string

	// GPUXMLFile decodes a saved XML dump instead of running GPUCommand.
	GPUXMLFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Input:          DefaultInput,
		HistogramWidth: DefaultHistogramWidth,
		BarSize:        DefaultBarSize,
		Jobs:           DefaultJobs,
		BatchLines:     DefaultBatchLines,
		Ratio:          DefaultRatio,
		NumGPUs:        DefaultNumGPUs,
		GPUCommand:     DefaultGPUCommand,
		DBDir:          XDGDataDir(),
	}
}

// ApplyFile copies the non-zero settings of a configuration file into c.
// Command line flags are applied afterwards and take precedence.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if f.Info.HistogramWidth > 0 {
		c.HistogramWidth = f.Info.HistogramWidth
	}
	if f.Info.BarSize > 0 {
		c.BarSize = f.Info.BarSize
	}
	if f.Info.NoHistogram {
		c.NoHistogram = true
	}
	if f.Info.Jobs > 0 {
		c.Jobs = f.Info.Jobs
	}
	if f.Info.BatchLines > 0 {
		c.BatchLines = f.Info.BatchLines
	}
	if f.Info.Save {
		c.SaveToDB = true
	}
	if f.Clean.Ratio > 0 {
		c.Ratio = f.Clean.Ratio
	}
	if len(f.Clean.LabelExts) > 0 {
		c.LabelExts = append([]string(nil), f.Clean.LabelExts...)
	}
	if f.GPU.Command != "" {
		c.GPUCommand = f.GPU.Command
	}
	if f.GPU.NumGPUs > 0 {
		c.NumGPUs = f.GPU.NumGPUs
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
}

// ResolveJobs turns a job count of zero or less into the number of CPUs.
// It is used for the "-j 0" shorthand.
func ResolveJobs(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// XDGDataDir returns the XDG data directory for corpustools.
// On Linux: ~/.local/share/corpustools
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for corpustools.
// On Linux: ~/.config/corpustools
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.HistogramWidth <= 0 {
		return ErrInvalidHistogramWidth
	}

	if c.BarSize <= 0 {
		return ErrInvalidBarSize
	}

	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}

	if c.BatchLines <= 0 {
		return ErrInvalidBatchLines
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Ratio <= 0 {
		return ErrInvalidRatio
	}

	if c.MinLen < 0 || c.MaxLen < c.MinLen {
		return ErrInvalidLengthRange
	}

	for _, ext := range c.LabelExts {
		if strings.TrimSpace(ext) == "" {
			return ErrEmptyLabelExt
		}
	}

	if c.NumGPUs < 0 {
		return ErrInvalidNumGPUs
	}

	return nil
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mtcorpus/corpustools/internal/stats"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the summary and returns the number of bytes written.
	Write(summary *stats.Summary) (int, error)
}

// Format names a report layout.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat returns the Format named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or markdown)", s)
	}
}

// Options holds the settings shared by all formats.
type Options struct {
	// NoHistogram omits the histogram. JSON always includes it.
	NoHistogram bool

	// BarSize is the width of the fullest histogram bar in ticks.
	BarSize int
}

// NewWriter returns a Writer for format.
func NewWriter(format Format, output io.Writer, opts Options) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithMarkdownHistogram(!opts.NoHistogram, opts.BarSize))
	default:
		return NewTextWriter(output,
			WithHistogram(!opts.NoHistogram),
			WithBarSize(opts.BarSize),
		)
	}
}

package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/mtcorpus/corpustools/internal/stats"
)

// histogramSeparator divides the statistics from the histogram.
const histogramSeparator = "------------"

// TextWriter outputs the fixed-layout text report.
// Labels are padded to a common width and values follow a tab, so the
// report can be read by eye and cut by column.
type TextWriter struct {
	output io.Writer

	// histogram enables the histogram section.
	histogram bool

	// barSize is the width of the fullest histogram bar in ticks.
	barSize int
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithHistogram enables or disables the histogram section.
func WithHistogram(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.histogram = show
	}
}

// WithBarSize sets the width of the fullest histogram bar.
// Non-positive values are ignored.
func WithBarSize(n int) TextWriterOption {
	return func(w *TextWriter) {
		if n > 0 {
			w.barSize = n
		}
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
// The histogram is shown by default with 50-tick bars.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		output:    output,
		histogram: true,
		barSize:   50,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary as text.
func (w *TextWriter) Write(summary *stats.Summary) (int, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# of sentences     :\t%d\n", summary.Sentences)
	fmt.Fprintf(&buf, "# of tokens        :\t%d\n", summary.Tokens)
	fmt.Fprintf(&buf, "# of tokens (mean) :\t%s\n", FormatFloat(summary.Mean))
	fmt.Fprintf(&buf, "# of tokens (SD)   :\t%s\n", FormatFloat(summary.SD))
	fmt.Fprintf(&buf, "max length         :\t%d (L.%s)\n", summary.MaxLen, joinIDs(summary.MaxLenIDs))
	fmt.Fprintf(&buf, "min length         :\t%d (L.%s)\n", summary.MinLen, joinIDs(summary.MinLenIDs))
	fmt.Fprintf(&buf, "vocabulary size    :\t%d\n", summary.VocabularySize)

	if w.histogram {
		w.writeHistogram(&buf, summary)
	}

	return w.output.Write(buf.Bytes())
}

// writeHistogram writes one row per bucket, bounds right-aligned to the
// width of the largest upper bound.
func (w *TextWriter) writeHistogram(buf *bytes.Buffer, summary *stats.Summary) {
	fmt.Fprintln(buf, histogramSeparator)
	fmt.Fprintf(buf, "histogram: (width=%d)\n", summary.HistogramWidth)

	rows := HistogramRows(summary, w.barSize)
	if len(rows) == 0 {
		return
	}
	order := len(strconv.Itoa(rows[len(rows)-1].High))

	for _, row := range rows {
		fmt.Fprintf(buf, "%*d-%*d: |%s %d\n",
			order, row.Low,
			order, row.High,
			padBar(row.Bar, w.barSize),
			row.Count,
		)
	}
}

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"

	"github.com/mtcorpus/corpustools/internal/stats"
)

// maxListedIDs caps the line numbers shown per extreme in Markdown tables.
const maxListedIDs = 10

// MarkdownWriter outputs summaries in Markdown format.
// This format is meant to be pasted into experiment notes and pull requests.
type MarkdownWriter struct {
	output io.Writer

	// barSize is the width of the fullest histogram bar in ticks.
	barSize int

	// histogram enables the histogram section.
	histogram bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownHistogram enables or disables the histogram section.
func WithMarkdownHistogram(show bool, barSize int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.histogram = show
		if barSize > 0 {
			w.barSize = barSize
		}
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		output:    output,
		barSize:   50,
		histogram: true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *stats.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeLengths(md, summary)
	if w.histogram {
		w.writeHistogram(md, summary)
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the count table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *stats.Summary) {
	md.H1("Corpus Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + summary.Input + "`"},
			{"Sentences", humanize.Comma(int64(summary.Sentences))},
			{"Tokens", humanize.Comma(int64(summary.Tokens))},
			{"Tokens (mean)", humanize.CommafWithDigits(summary.Mean, 2)},
			{"Tokens (SD)", humanize.CommafWithDigits(summary.SD, 2)},
			{"Vocabulary size", humanize.Comma(int64(summary.VocabularySize))},
		},
	})
	md.PlainText("")
}

// writeLengths writes the extreme sentence lengths with their line numbers.
func (w *MarkdownWriter) writeLengths(md *markdown.Markdown, summary *stats.Summary) {
	md.H2("Sentence Length")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Extreme", "Tokens", "Lines"},
		Rows: [][]string{
			{"Longest", strconv.Itoa(summary.MaxLen), listIDs(summary.MaxLenIDs)},
			{"Shortest", strconv.Itoa(summary.MinLen), listIDs(summary.MinLenIDs)},
		},
	})
	md.PlainText("")
}

// writeHistogram writes the histogram as a table with text bars.
func (w *MarkdownWriter) writeHistogram(md *markdown.Markdown, summary *stats.Summary) {
	md.H2(fmt.Sprintf("Length Histogram (width=%d)", summary.HistogramWidth))
	md.PlainText("")

	rows := HistogramRows(summary, w.barSize)
	tableRows := make([][]string, len(rows))
	for i, row := range rows {
		tableRows[i] = []string{
			fmt.Sprintf("%d-%d", row.Low, row.High),
			humanize.Comma(int64(row.Count)),
			row.Bar,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Tokens", "Sentences", "Distribution"},
		Rows:   tableRows,
	})
	md.PlainText("")
}

// listIDs formats line numbers, eliding all but the first few.
func listIDs(ids []int) string {
	if len(ids) <= maxListedIDs {
		return joinIDs(ids)
	}

	var b strings.Builder
	b.WriteString(joinIDs(ids[:maxListedIDs]))
	fmt.Fprintf(&b, ", … (%s more)", humanize.Comma(int64(len(ids)-maxListedIDs)))
	return b.String()
}

package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/mtcorpus/corpustools/internal/stats"
)

// JSONWriter outputs summaries as a single JSON document.
// Tokens such as <unk> and &amp; are written as is, without HTML escaping.
type JSONWriter struct {
	output io.Writer

	// prefix and indent are passed to json.Encoder.SetIndent.
	// Both empty gives compact output.
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents by two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary.
func (w *JSONWriter) Write(summary *stats.Summary) (int, error) {
	return w.WriteValue(summary)
}

// WriteValue encodes any value followed by a newline.
func (w *JSONWriter) WriteValue(v any) (int, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(w.prefix, w.indent)
	if err := enc.Encode(v); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

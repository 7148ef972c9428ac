package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mtcorpus/corpustools/internal/stats"
)

// createTestSummary builds a summary for lengths 3, 1, 3, 0, 2 with width 2.
func createTestSummary(t *testing.T) *stats.Summary {
	t.Helper()

	acc := stats.NewAccumulator(2)
	for i, line := range []string{"the cat sat", "hello", "a b c", "", "x y"} {
		acc.Add(i+1, line)
	}

	summary, err := acc.Summary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary.Input = "corpus.en"
	return summary
}

// TestTextWriter tests the fixed-layout text report.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes statistics and histogram", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, WithBarSize(4))

		if _, err := w.Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# of sentences     :\t5\n" +
			"# of tokens        :\t9\n" +
			"# of tokens (mean) :\t1.8\n" +
			"# of tokens (SD)   :\t1.1661903789690597\n" +
			"max length         :\t3 (L.1, 3)\n" +
			"min length         :\t0 (L.4)\n" +
			"vocabulary size    :\t9\n" +
			"------------\n" +
			"histogram: (width=2)\n" +
			"0-2: |▇▇▇▏ 2\n" +
			"2-4: |▇▇▇▇ 3\n"
		if diff := cmp.Diff(want, buf.String()); diff != "" {
			t.Errorf("report mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("omits histogram when disabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, WithHistogram(false))

		if _, err := w.Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "histogram") {
			t.Errorf("expected no histogram, got %q", buf.String())
		}
		if !strings.HasSuffix(buf.String(), "vocabulary size    :\t9\n") {
			t.Errorf("expected report to end with vocabulary size, got %q", buf.String())
		}
	})

	t.Run("aligns bounds to the widest upper bound", func(t *testing.T) {
		t.Parallel()

		acc := stats.NewAccumulator(50)
		acc.Add(1, strings.Repeat("w ", 120))
		acc.Add(2, "w")
		summary, err := acc.Summary()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf, WithBarSize(2)).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, row := range []string{"  0- 50: |▇▇ 1\n", " 50-100: |   0\n", "100-150: |▇▇ 1\n"} {
			if !strings.Contains(buf.String(), row) {
				t.Errorf("expected row %q in %q", row, buf.String())
			}
		}
	})
}

// TestHistogramRows tests bar scaling.
func TestHistogramRows(t *testing.T) {
	t.Parallel()

	summary := &stats.Summary{
		HistogramWidth: 10,
		Histogram: []stats.Bucket{
			{Low: 0, High: 10, Count: 8},
			{Low: 10, High: 20, Count: 1},
			{Low: 20, High: 30, Count: 0},
			{Low: 30, High: 40, Count: 4},
		},
	}

	rows := HistogramRows(summary, 4)
	bars := make([]string, len(rows))
	for i, row := range rows {
		bars[i] = row.Bar
	}

	// 8 -> 4 ticks, 1 -> 0.5 rounds to 0 plus a small tick, 4 -> 2 ticks.
	want := []string{"▇▇▇▇", SmallTick, "", "▇▇"}
	if diff := cmp.Diff(want, bars); diff != "" {
		t.Errorf("bars mismatch (-want +got):\n%s", diff)
	}

	if rows := HistogramRows(&stats.Summary{}, 4); rows != nil {
		t.Errorf("expected no rows for empty histogram, got %v", rows)
	}
}

// TestFormatFloat tests decimal formatting of means and deviations.
func TestFormatFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{in: 3, want: "3.0"},
		{in: 0, want: "0.0"},
		{in: 1.8, want: "1.8"},
		{in: 12345678.25, want: "12345678.25"},
		{in: 1e20, want: "1e+20"},
		{in: 0.00001, want: "1e-05"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips summary fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		summary := createTestSummary(t)
		if _, err := NewJSONWriter(&buf).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got stats.Summary
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if diff := cmp.Diff(summary, &got); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("does not escape HTML", func(t *testing.T) {
		t.Parallel()

		acc := stats.NewAccumulator(50)
		acc.Add(1, "<unk> & <s>")
		summary, err := acc.Summary()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary.Input = "a<b>.txt"

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"input":"a<b>.txt"`) {
			t.Errorf("expected unescaped input name, got %q", buf.String())
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"sentences\": 5") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Corpus Statistics",
			"`corpus.en`",
			"## Sentence Length",
			"## Length Histogram (width=2)",
			"1, 3",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})

	t.Run("histogram can be disabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithMarkdownHistogram(false, 0)).Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "Length Histogram") {
			t.Error("expected no histogram section")
		}
	})
}

// TestListIDs tests eliding long line number lists.
func TestListIDs(t *testing.T) {
	t.Parallel()

	ids := make([]int, 12)
	for i := range ids {
		ids[i] = i + 1
	}

	if got := listIDs(ids[:3]); got != "1, 2, 3" {
		t.Errorf("expected full list, got %q", got)
	}
	if got := listIDs(ids); got != "1, 2, 3, 4, 5, 6, 7, 8, 9, 10, … (2 more)" {
		t.Errorf("expected elided list, got %q", got)
	}
}

// TestNewWriter tests format selection.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatText, want: "# of sentences     :\t5\n"},
		{format: FormatJSON, want: "\"sentences\": 5"},
		{format: FormatMarkdown, want: "# Corpus Statistics"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n, err := NewWriter(tt.format, &buf, Options{BarSize: 4}).Write(createTestSummary(t))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, buf.String())
			}
			if tt.format != FormatMarkdown && n != buf.Len() {
				t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
			}
		})
	}
}

// TestParseFormat tests format names.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"text": FormatText, "JSON": FormatJSON, "md": FormatMarkdown} {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

// TestWriteErrors tests that output errors are returned.
func TestWriteErrors(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatText, FormatJSON} {
		if _, err := NewWriter(format, failingWriter{}, Options{}).Write(createTestSummary(t)); err == nil {
			t.Errorf("%s: expected error", format)
		}
	}
}

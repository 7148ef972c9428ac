package report

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mtcorpus/corpustools/internal/stats"
)

// Histogram bar characters.
const (
	Tick      = "▇"
	SmallTick = "▏"
)

// HistogramRow is one rendered histogram bucket.
type HistogramRow struct {
	Low   int
	High  int
	Count int

	// Bar is the tick string. It ends with SmallTick when the scaled count
	// is not a whole number of ticks.
	Bar string
}

// HistogramRows scales every bucket so that the fullest one spans barSize
// ticks. Scaled counts are rounded half to even.
func HistogramRows(summary *stats.Summary, barSize int) []HistogramRow {
	maxCount := summary.MaxBucketCount()
	if maxCount == 0 {
		return nil
	}
	scaling := float64(barSize) / float64(maxCount)

	rows := make([]HistogramRow, len(summary.Histogram))
	for i, b := range summary.Histogram {
		scaled := float64(b.Count) * scaling
		rounded := math.RoundToEven(scaled)

		bar := strings.Repeat(Tick, int(rounded))
		if scaled != rounded {
			bar += SmallTick
		}

		rows[i] = HistogramRow{Low: b.Low, High: b.High, Count: b.Count, Bar: bar}
	}
	return rows
}

// padBar right-pads a bar with spaces to barSize runes.
func padBar(bar string, barSize int) string {
	pad := barSize - utf8.RuneCountInString(bar)
	if pad <= 0 {
		return bar
	}
	return bar + strings.Repeat(" ", pad)
}

// FormatFloat prints f in shortest round-trip form. Whole numbers keep a
// trailing ".0" so that means and deviations always read as decimals.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if math.Abs(f) >= 1e16 || (f != 0 && math.Abs(f) < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// joinIDs joins line numbers with ", ".
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

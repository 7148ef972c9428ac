package stats

import (
	"errors"
	"math"
	"slices"
	"strings"
)

// ErrEmptyCorpus is returned when a summary is requested for an input
// without lines.
var ErrEmptyCorpus = errors.New("empty corpus: no sentences to summarize")

// Accumulator collects statistics over a set of sentences.
// The zero value is not usable; create one with NewAccumulator.
type Accumulator struct {
	// HistogramWidth is the bucket width in tokens.
	HistogramWidth int

	// Sentences is the number of lines seen.
	Sentences int

	// Tokens is the total number of tokens.
	Tokens int

	// SquaredTokens is the sum of squared sentence lengths.
	SquaredTokens int

	// Vocabulary maps every token to its frequency.
	Vocabulary map[string]int

	// MaxLen is the longest sentence length and MaxLenIDs the lines that have it.
	MaxLen    int
	MaxLenIDs []int

	// MinLen is the shortest sentence length and MinLenIDs the lines that have it.
	MinLen    int
	MinLenIDs []int

	// Histogram maps bucket index (length / HistogramWidth) to sentence count.
	Histogram map[int]int
}

// NewAccumulator creates an empty Accumulator with the given bucket width.
// A non-positive width is replaced by 1.
func NewAccumulator(histogramWidth int) *Accumulator {
	if histogramWidth <= 0 {
		histogramWidth = 1
	}
	return &Accumulator{
		HistogramWidth: histogramWidth,
		Vocabulary:     make(map[string]int),
		Histogram:      make(map[int]int),
	}
}

// Add records one sentence. id is its 1-based line number.
func (a *Accumulator) Add(id int, line string) {
	tokens := strings.Fields(line)
	for _, token := range tokens {
		a.Vocabulary[token]++
	}

	a.addLength(id, len(tokens))
}

func (a *Accumulator) addLength(id, n int) {
	a.Tokens += n
	a.SquaredTokens += n * n

	switch {
	case a.Sentences == 0 || n > a.MaxLen:
		a.MaxLen = n
		a.MaxLenIDs = []int{id}
	case n == a.MaxLen:
		a.MaxLenIDs = append(a.MaxLenIDs, id)
	}

	switch {
	case a.Sentences == 0 || n < a.MinLen:
		a.MinLen = n
		a.MinLenIDs = []int{id}
	case n == a.MinLen:
		a.MinLenIDs = append(a.MinLenIDs, id)
	}

	a.Histogram[n/a.HistogramWidth]++
	a.Sentences++
}

// Merge adds the statistics of b into a. Both accumulators must use the
// same histogram width. Merge is commutative up to the order of line ids,
// which Summary sorts.
func (a *Accumulator) Merge(b *Accumulator) {
	if b == nil || b.Sentences == 0 {
		return
	}

	if a.Sentences == 0 || b.MaxLen > a.MaxLen {
		a.MaxLen = b.MaxLen
		a.MaxLenIDs = append([]int(nil), b.MaxLenIDs...)
	} else if b.MaxLen == a.MaxLen {
		a.MaxLenIDs = append(a.MaxLenIDs, b.MaxLenIDs...)
	}

	if a.Sentences == 0 || b.MinLen < a.MinLen {
		a.MinLen = b.MinLen
		a.MinLenIDs = append([]int(nil), b.MinLenIDs...)
	} else if b.MinLen == a.MinLen {
		a.MinLenIDs = append(a.MinLenIDs, b.MinLenIDs...)
	}

	a.Sentences += b.Sentences
	a.Tokens += b.Tokens
	a.SquaredTokens += b.SquaredTokens

	for token, freq := range b.Vocabulary {
		a.Vocabulary[token] += freq
	}
	for bucket, count := range b.Histogram {
		a.Histogram[bucket] += count
	}
}

// Summary derives the reported statistics.
// It returns ErrEmptyCorpus when no sentence was added.
func (a *Accumulator) Summary() (*Summary, error) {
	if a.Sentences == 0 {
		return nil, ErrEmptyCorpus
	}

	n := float64(a.Sentences)
	mean := float64(a.Tokens) / n
	variance := float64(a.SquaredTokens)/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	maxIDs := slices.Clone(a.MaxLenIDs)
	slices.Sort(maxIDs)
	minIDs := slices.Clone(a.MinLenIDs)
	slices.Sort(minIDs)

	return &Summary{
		Sentences:      a.Sentences,
		Tokens:         a.Tokens,
		Mean:           mean,
		SD:             math.Sqrt(variance),
		MaxLen:         a.MaxLen,
		MaxLenIDs:      maxIDs,
		MinLen:         a.MinLen,
		MinLenIDs:      minIDs,
		VocabularySize: len(a.Vocabulary),
		HistogramWidth: a.HistogramWidth,
		Histogram:      a.buckets(),
	}, nil
}

// buckets lists every bucket from 0 through the highest non-empty one.
func (a *Accumulator) buckets() []Bucket {
	highest := 0
	for bucket := range a.Histogram {
		highest = max(highest, bucket)
	}

	buckets := make([]Bucket, highest+1)
	for i := range buckets {
		buckets[i] = Bucket{
			Low:   i * a.HistogramWidth,
			High:  (i + 1) * a.HistogramWidth,
			Count: a.Histogram[i],
		}
	}
	return buckets
}

package stats

// Summary is the report of a corpus statistics run.
type Summary struct {
	// Input names the counted file ("<stdin>" for standard input).
	Input string `json:"input"`

	Sentences int     `json:"sentences"`
	Tokens    int     `json:"tokens"`
	Mean      float64 `json:"tokensMean"`
	SD        float64 `json:"tokensSD"`

	MaxLen    int   `json:"maxLength"`
	MaxLenIDs []int `json:"maxLengthLines"`
	MinLen    int   `json:"minLength"`
	MinLenIDs []int `json:"minLengthLines"`

	VocabularySize int `json:"vocabularySize"`

	HistogramWidth int      `json:"histogramWidth"`
	Histogram      []Bucket `json:"histogram"`
}

// Bucket is one histogram row covering lengths in [Low, High).
type Bucket struct {
	Low   int `json:"low"`
	High  int `json:"high"`
	Count int `json:"count"`
}

// MaxBucketCount returns the largest bucket count.
func (s *Summary) MaxBucketCount() int {
	highest := 0
	for _, b := range s.Histogram {
		highest = max(highest, b.Count)
	}
	return highest
}

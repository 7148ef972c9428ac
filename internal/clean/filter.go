package clean

import (
	"strings"
)

// Filter decides whether a sentence pair is kept.
type Filter interface {
	// Keep reports whether the pair should be written to the clean corpus.
	// Lines are passed with their terminators.
	Keep(src, tgt string) bool

	// Name returns the filter's name for logging purposes.
	Name() string
}

// EmptyLineFilter drops pairs where either side is blank.
type EmptyLineFilter struct{}

// Keep reports whether both sides contain a non-whitespace character.
func (EmptyLineFilter) Keep(src, tgt string) bool {
	return !isBlank(src) && !isBlank(tgt)
}

// Name returns "empty-line".
func (EmptyLineFilter) Name() string {
	return "empty-line"
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// LengthRatioFilter keeps pairs whose token counts lie in [MinLen, MaxLen]
// on both sides and whose length ratio, in either direction, is at most Ratio.
type LengthRatioFilter struct {
	MinLen int
	MaxLen int
	Ratio  float64
}

// Keep applies the length and ratio bounds. A side without tokens fails the
// ratio bound, since its ratio is unbounded.
func (f LengthRatioFilter) Keep(src, tgt string) bool {
	fn := len(strings.Fields(src))
	en := len(strings.Fields(tgt))

	if fn > f.MaxLen || en > f.MaxLen || fn < f.MinLen || en < f.MinLen {
		return false
	}
	if fn == 0 || en == 0 {
		return false
	}

	return float64(fn)/float64(en) <= f.Ratio && float64(en)/float64(fn) <= f.Ratio
}

// Name returns "length-ratio".
func (f LengthRatioFilter) Name() string {
	return "length-ratio"
}

package conllu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mtcorpus/corpustools/internal/lineio"
)

// FullWidthSpace is the ideographic space used as a word separator.
const FullWidthSpace = '　'

// minColumns is the number of columns up to and including HEAD.
const minColumns = 7

// Column indices.
const (
	colID   = 0
	colForm = 1
	colHead = 6
)

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 4096

var (
	// ErrTooFewColumns is returned for a token line without a HEAD column.
	ErrTooFewColumns = errors.New("too few columns")

	// ErrInvalidIndex is returned when ID or HEAD is not an integer.
	ErrInvalidIndex = errors.New("invalid index")
)

// ParseError reports a malformed input line.
type ParseError struct {
	Input string
	Line  int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Input, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Converter turns CoNLL-U sentences into lines of head indices.
type Converter struct {
	splitFWSpace bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithSplitFWSpace splits FORMs on full-width spaces.
func WithSplitFWSpace(split bool) Option {
	return func(c *Converter) {
		c.splitFWSpace = split
	}
}

// NewConverter creates a Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sentence holds the heads collected so far.
type sentence struct {
	heads []int
	shift int
	open  bool
}

func (s *sentence) reset() {
	s.heads = s.heads[:0]
	s.shift = 0
	s.open = false
}

// Convert reads r to the end and writes one line per sentence to w.
// It returns the number of lines written.
func (c *Converter) Convert(ctx context.Context, r *lineio.Reader, w io.Writer) (int, error) {
	var (
		sent    sentence
		written int
	)

	flush := func() error {
		if _, err := io.WriteString(w, formatHeads(sent.heads)+"\n"); err != nil {
			return fmt.Errorf("failed to write heads: %w", err)
		}
		written++
		sent.reset()
		return nil
	}

	for {
		if r.LineNo()%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return written, err
			}
		}

		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return written, err
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.addToken(&sent, line); err != nil {
			return written, &ParseError{Input: r.Name(), Line: r.LineNo(), Err: err}
		}
	}

	if sent.open {
		if err := flush(); err != nil {
			return written, err
		}
	}

	return written, nil
}

// addToken appends the heads of one token line.
func (c *Converter) addToken(sent *sentence, line string) error {
	cols := splitColumns(line)
	if len(cols) < minColumns {
		return fmt.Errorf("%w: got %d, need %d", ErrTooFewColumns, len(cols), minColumns)
	}

	// Multi-word token ranges and empty nodes carry no head of their own.
	if strings.ContainsAny(cols[colID], "-.") {
		sent.open = true
		return nil
	}

	head, err := strconv.Atoi(cols[colHead])
	if err != nil {
		return fmt.Errorf("%w: HEAD %q", ErrInvalidIndex, cols[colHead])
	}
	sent.open = true

	if !c.splitFWSpace {
		sent.heads = append(sent.heads, head)
		return nil
	}

	if spaces := strings.Count(cols[colForm], string(FullWidthSpace)); spaces > 0 {
		id, err := strconv.Atoi(cols[colID])
		if err != nil {
			return fmt.Errorf("%w: ID %q", ErrInvalidIndex, cols[colID])
		}
		for i := 1; i <= spaces; i++ {
			sent.heads = append(sent.heads, id+sent.shift+i)
		}
		sent.shift += spaces
	}

	if head > 0 {
		sent.heads = append(sent.heads, head+sent.shift)
	} else {
		sent.heads = append(sent.heads, 0)
	}
	return nil
}

// splitColumns splits on tabs, or on single spaces when the line has none.
func splitColumns(line string) []string {
	if strings.ContainsRune(line, '\t') {
		return strings.Split(line, "\t")
	}
	return strings.Split(strings.TrimSpace(line), " ")
}

func formatHeads(heads []int) string {
	parts := make([]string, len(heads))
	for i, h := range heads {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, " ")
}

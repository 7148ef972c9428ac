package clean

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mtcorpus/corpustools/internal/lineio"
)

// ErrSameCorpus is returned when the clean corpus would overwrite its input.
var ErrSameCorpus = errors.New("input and output corpus must differ")

// cancelCheckInterval is how many pairs are read between context checks.
const cancelCheckInterval = 4096

// Corpus names the files of a parallel corpus.
type Corpus struct {
	// Prefix is the path without language extension.
	Prefix string

	// Src and Tgt are the language extensions of the two sides.
	Src string
	Tgt string
}

// Path returns the file holding the given extension.
func (c Corpus) Path(ext string) string {
	return c.Prefix + "." + ext
}

// Result counts the pairs read and kept.
type Result struct {
	Read int
	Kept int
}

// String formats the result the way it is reported on stderr.
func (r Result) String() string {
	return fmt.Sprintf("input sentences: %d, output sentences: %d", r.Read, r.Kept)
}

// Cleaner copies the pairs accepted by a Filter from one corpus to another.
type Cleaner struct {
	filter    Filter
	labelExts []string
	logger    *slog.Logger
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLabels adds auxiliary files, one per extension, that are filtered
// together with the corpus.
func WithLabels(exts ...string) Option {
	return func(c *Cleaner) {
		c.labelExts = append(c.labelExts, exts...)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cleaner) {
		c.logger = logger
	}
}

// NewCleaner creates a Cleaner using filter.
func NewCleaner(filter Filter, opts ...Option) *Cleaner {
	c := &Cleaner{filter: filter}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// stream is one input file paired with its output file.
type stream struct {
	in  *lineio.Reader
	out *lineio.Writer
}

// Run filters in into out. Reading stops at the end of the shortest input;
// unequal lengths are logged as a warning.
func (c *Cleaner) Run(ctx context.Context, in, out Corpus) (result Result, err error) {
	if in.Prefix == out.Prefix {
		return result, ErrSameCorpus
	}

	exts := append([]string{in.Src, in.Tgt}, c.labelExts...)
	outExts := append([]string{out.Src, out.Tgt}, c.labelExts...)

	streams := make([]stream, 0, len(exts))
	defer func() {
		for _, s := range streams {
			if closeErr := s.in.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
			if s.out == nil {
				continue
			}
			if closeErr := s.out.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}()

	for i, ext := range exts {
		r, openErr := lineio.Open(in.Path(ext))
		if openErr != nil {
			return result, openErr
		}
		streams = append(streams, stream{in: r})

		w, createErr := lineio.Create(out.Path(outExts[i]))
		if createErr != nil {
			return result, createErr
		}
		streams[i].out = w
	}

	c.logger.Debug("cleaning corpus",
		"filter", c.filter.Name(),
		"input", in.Prefix,
		"output", out.Prefix,
		"labels", c.labelExts,
	)

	lines := make([]string, len(streams))
	for {
		if result.Read%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		done, err := c.readRow(streams, lines)
		if err != nil {
			return result, err
		}
		if done {
			break
		}

		result.Read++
		if !c.filter.Keep(lines[0], lines[1]) {
			continue
		}

		for i, s := range streams {
			if _, err := s.out.WriteString(lines[i]); err != nil {
				return result, fmt.Errorf("failed to write %s: %w", s.out.Name(), err)
			}
		}
		result.Kept++
	}

	c.logger.Debug("corpus cleaned", "read", result.Read, "kept", result.Kept)
	return result, nil
}

// readRow reads one line from every stream into lines. It reports done
// once any stream is exhausted, and warns when the others are not.
func (c *Cleaner) readRow(streams []stream, lines []string) (bool, error) {
	exhausted := make([]string, 0, len(streams))

	for i, s := range streams {
		line, err := s.in.ReadLine()
		if errors.Is(err, io.EOF) {
			exhausted = append(exhausted, s.in.Name())
			continue
		}
		if err != nil {
			return false, err
		}
		lines[i] = line
	}

	if len(exhausted) == 0 {
		return false, nil
	}
	if len(exhausted) < len(streams) {
		c.logger.Warn("inputs have different numbers of lines; extra lines are ignored",
			"exhausted", exhausted,
		)
	}
	return true, nil
}

package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the file name that selects standard input.
const Stdin = "-"

// readerSize is the buffer size of line readers. Corpus lines are short,
// but CoNLL-U and subword corpora can carry very long ones.
const readerSize = 1 << 20

// Reader reads lines from a corpus file.
type Reader struct {
	name   string
	r      *bufio.Reader
	closer io.Closer
	lineNo int
}

// NewReader wraps r, removing a leading UTF-8 byte order mark.
// The name is used in error messages only.
func NewReader(name string, r io.Reader) *Reader {
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	return &Reader{
		name: name,
		r:    bufio.NewReaderSize(decoded, readerSize),
	}
}

// Open opens a corpus file for reading. The name "-" selects stdin.
func Open(name string) (*Reader, error) {
	if name == Stdin || name == "" {
		return NewReader("<stdin>", os.Stdin), nil
	}

	f, err := os.Open(name) //nolint:gosec // User-provided corpus path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	reader := NewReader(name, f)
	reader.closer = f
	return reader, nil
}

// Name returns the name of the underlying input.
func (r *Reader) Name() string {
	return r.name
}

// LineNo returns the 1-based number of the line last returned.
func (r *Reader) LineNo() int {
	return r.lineNo
}

// ReadLine returns the next line including its terminator. The last line
// of a file without a trailing newline is returned as is. At end of input
// it returns "", io.EOF.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.EOF
			}
			r.lineNo++
			return line, nil
		}
		return "", fmt.Errorf("failed to read %s: %w", r.name, err)
	}

	r.lineNo++
	return line, nil
}

// Close closes the underlying file. Closing stdin is a no-op.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Writer is a buffered output file.
type Writer struct {
	*bufio.Writer
	name string
	f    *os.File
}

// Create creates or truncates an output file, making parent directories
// as needed. The name "-" selects stdout.
func Create(name string) (*Writer, error) {
	if name == Stdin || name == "" {
		return &Writer{Writer: bufio.NewWriter(os.Stdout), name: "<stdout>"}, nil
	}

	dir := filepath.Dir(name)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(name) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}

	return &Writer{Writer: bufio.NewWriter(f), name: name, f: f}, nil
}

// Name returns the output name.
func (w *Writer) Name() string {
	return w.name
}

// Close flushes buffered data and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	if w.f == nil {
		return flushErr
	}
	closeErr := w.f.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", w.name, flushErr)
	}
	return closeErr
}

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of concurrent workers when none is configured.
const DefaultConcurrency = 4

// DefaultBatchLines is the number of lines per batch when none is configured.
const DefaultBatchLines = 10000

// LineSource yields lines until io.EOF.
// *lineio.Reader satisfies this interface.
type LineSource interface {
	ReadLine() (string, error)
}

// Batch is a run of consecutive input lines.
type Batch struct {
	// Index is the 0-based position of the batch in the input.
	Index int

	// FirstLine is the 1-based line number of Lines[0].
	FirstLine int

	// Lines holds the raw lines, terminators included.
	Lines []string
}

// BatchProcessor maps batches of lines to partial results of type R and
// merges them into the caller's accumulator.
type BatchProcessor[R any] struct {
	// work computes the partial result of one batch.
	work func(ctx context.Context, batch Batch) (R, error)

	// concurrency is the maximum number of concurrent workers.
	concurrency int

	// batchLines is the number of lines per batch.
	batchLines int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// mu serializes calls to the merge function.
	mu sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*batchSettings)

type batchSettings struct {
	concurrency int
	batchLines  int
	logger      *slog.Logger
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(s *batchSettings) {
		s.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent workers.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(s *batchSettings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithBatchLines sets the number of lines per batch.
// Non-positive values are ignored.
func WithBatchLines(n int) BatchOption {
	return func(s *batchSettings) {
		if n > 0 {
			s.batchLines = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor running work on every batch.
func NewBatchProcessor[R any](work func(ctx context.Context, batch Batch) (R, error), opts ...BatchOption) *BatchProcessor[R] {
	settings := batchSettings{
		concurrency: DefaultConcurrency,
		batchLines:  DefaultBatchLines,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	if settings.logger == nil {
		settings.logger = slog.Default()
	}

	return &BatchProcessor[R]{
		work:        work,
		concurrency: settings.concurrency,
		batchLines:  settings.batchLines,
		logger:      settings.logger,
	}
}

// Concurrency returns the configured worker limit.
func (bp *BatchProcessor[R]) Concurrency() int {
	return bp.concurrency
}

// BatchLines returns the configured batch size.
func (bp *BatchProcessor[R]) BatchLines() int {
	return bp.batchLines
}

// Process reads src to the end, runs the work function on every batch and
// calls merge with each partial result. Calls to merge never overlap.
//
// The first error from the source, a worker, or the context cancels the
// remaining batches and is returned.
func (bp *BatchProcessor[R]) Process(ctx context.Context, src LineSource, merge func(partial R, batch Batch)) error {
	bp.logger.Debug("starting batch processing",
		"concurrency", bp.concurrency,
		"batchLines", bp.batchLines,
	)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	nextLine := 1
	batches := 0
	for {
		batch, err := bp.readBatch(src, batches, nextLine)
		if len(batch.Lines) > 0 {
			batches++
			nextLine += len(batch.Lines)

			// g.Go blocks while the limit is reached, which throttles reading.
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				partial, err := bp.work(gctx, batch)
				if err != nil {
					return err
				}

				bp.mu.Lock()
				merge(partial, batch)
				bp.mu.Unlock()
				return nil
			})
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = g.Wait() //nolint:errcheck // The read error takes precedence
			return err
		}
		if gctx.Err() != nil {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bp.logger.Debug("batch processing complete",
		"batches", batches,
		"lines", nextLine-1,
		"elapsed", time.Since(startTime),
	)

	return nil
}

// readBatch collects up to batchLines lines. It returns io.EOF together
// with the final, possibly empty, batch.
func (bp *BatchProcessor[R]) readBatch(src LineSource, index, firstLine int) (Batch, error) {
	batch := Batch{
		Index:     index,
		FirstLine: firstLine,
		Lines:     make([]string, 0, bp.batchLines),
	}

	for len(batch.Lines) < bp.batchLines {
		line, err := src.ReadLine()
		if err != nil {
			return batch, err
		}
		batch.Lines = append(batch.Lines, line)
	}

	return batch, nil
}

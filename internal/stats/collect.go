package stats

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mtcorpus/corpustools/internal/pipeline"
)

// cancelCheckInterval is how many lines the sequential path reads between
// context checks.
const cancelCheckInterval = 4096

// Options configures Collect.
type Options struct {
	// HistogramWidth is the bucket width in tokens.
	HistogramWidth int

	// Jobs is the number of concurrent workers. One or less counts sequentially.
	Jobs int

	// BatchLines is the number of lines per worker batch.
	BatchLines int

	// Logger receives progress records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Collect reads src to the end and returns its statistics.
// With more than one job the lines are counted in parallel batches and the
// partial accumulators are merged; the result equals the sequential one.
func Collect(ctx context.Context, src pipeline.LineSource, opts Options) (*Accumulator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Jobs <= 1 {
		return collectSequential(ctx, src, opts.HistogramWidth)
	}

	total := NewAccumulator(opts.HistogramWidth)
	bp := pipeline.NewBatchProcessor(
		func(ctx context.Context, batch pipeline.Batch) (*Accumulator, error) {
			partial := NewAccumulator(opts.HistogramWidth)
			for i, line := range batch.Lines {
				partial.Add(batch.FirstLine+i, line)
			}
			return partial, ctx.Err()
		},
		pipeline.WithConcurrency(opts.Jobs),
		pipeline.WithBatchLines(opts.BatchLines),
		pipeline.WithBatchLogger(logger),
	)

	err := bp.Process(ctx, src, func(partial *Accumulator, batch pipeline.Batch) {
		total.Merge(partial)
		logger.Debug("merged batch",
			"batch", batch.Index,
			"firstLine", batch.FirstLine,
			"sentences", total.Sentences,
		)
	})
	if err != nil {
		return nil, err
	}

	return total, nil
}

func collectSequential(ctx context.Context, src pipeline.LineSource, histogramWidth int) (*Accumulator, error) {
	acc := NewAccumulator(histogramWidth)

	for id := 1; ; id++ {
		if id%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			return acc, nil
		}
		if err != nil {
			return nil, err
		}

		acc.Add(id, line)
	}
}

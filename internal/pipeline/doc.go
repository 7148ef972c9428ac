// Package pipeline provides a fork-join processor for line-oriented input.
//
// The input is cut into batches of consecutive lines. Each batch is handed
// to a worker function that produces a partial result, and the partial
// results are merged as workers finish. This is a map-reduce in miniature:
// the merge function must be commutative and associative, since batches
// complete in any order.
//
// Concurrency is bounded with errgroup.SetLimit. Reading stops as soon as
// the limit is reached, so at most the configured number of batches is
// held in memory at any time, however large the input is.
package pipeline

// Package stats computes token and sentence statistics of a corpus.
//
// One input line is one sentence and its tokens are separated by
// whitespace. An Accumulator collects counts, the vocabulary, the
// extreme sentence lengths with the line numbers attaining them, and a
// length histogram. Accumulators built over disjoint parts of the input
// merge into the same result the whole input would give, which lets
// Collect count line batches in parallel.
package stats

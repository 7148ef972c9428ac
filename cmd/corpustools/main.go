// Package main provides the entry point for the corpustools CLI.
//
// corpustools bundles small single-pass utilities for machine translation
// corpora: statistics with a length histogram, parallel corpus cleaning,
// CoNLL-U head extraction and free GPU lookup.
//
// Usage:
//
//	corpustools info -i train.en
//	corpustools clean train en de train.clean 1 250
//
// See --help for all available options.
package main

func main() {
	Execute()
}

// Package log provides structured logging for corpustools, built on top of
// the standard slog package.
//
// Corpus lines can be arbitrarily long, and a single malformed line in a
// debug record can swamp a terminal. The TrimHandler shortens long string
// values before they reach the underlying handler:
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("skipping line", "line", 42, "text", hugeLine)
//	// text="first 80 runes…(+9120 bytes)"
//
// Every subcommand tags its logger with the tool name:
//
//	logger = logger.With(log.ToolKey, "info")
package log

package log

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// ToolKey is the attribute key carrying the running subcommand.
const ToolKey = "tool"

// DefaultMaxValueRunes is the longest string value logged unchanged.
const DefaultMaxValueRunes = 80

// TrimHandler wraps an slog.Handler and shortens long string attributes.
// It works with any underlying handler (text, JSON, etc.).
type TrimHandler struct {
	// handler is the underlying slog handler that receives trimmed records.
	handler slog.Handler

	// maxRunes is the longest string value passed through unchanged.
	maxRunes int
}

// NewTrimHandler creates a new TrimHandler wrapping the given handler.
// If handler is nil, the returned TrimHandler will use slog.Default().Handler().
// A maxRunes of zero or less selects DefaultMaxValueRunes.
func NewTrimHandler(handler slog.Handler, maxRunes int) *TrimHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxRunes <= 0 {
		maxRunes = DefaultMaxValueRunes
	}
	return &TrimHandler{handler: handler, maxRunes: maxRunes}
}

// Enabled reports whether the handler handles records at the given level.
func (h *TrimHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle trims the record's attributes and passes it to the underlying handler.
func (h *TrimHandler) Handle(ctx context.Context, r slog.Record) error {
	trimmed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		trimmed.AddAttrs(h.trimAttr(a))
		return true
	})

	return h.handler.Handle(ctx, trimmed)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *TrimHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	trimmedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		trimmedAttrs[i] = h.trimAttr(a)
	}
	return &TrimHandler{handler: h.handler.WithAttrs(trimmedAttrs), maxRunes: h.maxRunes}
}

// WithGroup returns a new handler with the given group name.
func (h *TrimHandler) WithGroup(name string) slog.Handler {
	return &TrimHandler{handler: h.handler.WithGroup(name), maxRunes: h.maxRunes}
}

// trimAttr shortens a single attribute, recursively handling groups.
func (h *TrimHandler) trimAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		trimmedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			trimmedAttrs[i] = h.trimAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(trimmedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, Trim(a.Value.String(), h.maxRunes))
	}

	return a
}

// Trim returns s unchanged when it has at most maxRunes runes. Otherwise it
// returns the first maxRunes runes followed by the number of dropped bytes.
func Trim(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	cut := 0
	for i := 0; i < maxRunes; i++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}
	return s[:cut] + "…(+" + strconv.Itoa(len(s)-cut) + " bytes)"
}

// NewLogger creates a new slog.Logger writing text records.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	textHandler := slog.NewTextHandler(w, handlerOptions(verbose))
	return slog.New(NewTrimHandler(textHandler, DefaultMaxValueRunes))
}

// NewJSONLogger creates a new slog.Logger that outputs JSON records.
// Useful when corpus jobs run under a scheduler that collects logs.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, handlerOptions(verbose))
	return slog.New(NewTrimHandler(jsonHandler, DefaultMaxValueRunes))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

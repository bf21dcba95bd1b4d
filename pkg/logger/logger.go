// Package logger provides structured logging for the framework.
//
// It builds on log/slog and adds context-based attribute extraction (so
// request-scoped values like the request ID land on every log line) and an
// optional Sentry destination for error reporting. An empty Sentry DSN
// degrades gracefully to stdout-only logging, so the same code path works in
// development and production.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor pulls an slog attribute out of a context. Extractors run
// on every log call so request-scoped values stay fresh. Returning false
// skips the attribute for that entry.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New creates a JSON logger writing to stdout with the given extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(Decorate(h, extractors...))
}

// NewNope creates a logger that discards everything. Used as the default
// when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Decorate wraps a handler so the extractors run on every record.
// Nil extractors are filtered out up front.
func Decorate(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &extractHandler{next: next, extractors: clean}
}

// extractHandler injects context-extracted attributes before delegating.
type extractHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func (h *extractHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *extractHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *extractHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &extractHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *extractHandler) WithGroup(name string) slog.Handler {
	return &extractHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}

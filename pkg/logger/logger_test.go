package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golddranks/sharp-pencil/pkg/logger"
)

type ctxKey struct{}

func testExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", v), true
	}
	return slog.Attr{}, false
}

func capture(extractors ...logger.ContextExtractor) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, nil)
	return slog.New(logger.Decorate(h, extractors...)), &buf
}

func TestDecorate(t *testing.T) {
	t.Parallel()

	t.Run("adds extracted attribute from context", func(t *testing.T) {
		t.Parallel()

		log, buf := capture(testExtractor)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-42")
		log.InfoContext(ctx, "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "req-42", entry["request_id"])
		require.Equal(t, "hello", entry["msg"])
	})

	t.Run("skips attribute when extractor declines", func(t *testing.T) {
		t.Parallel()

		log, buf := capture(testExtractor)
		log.InfoContext(context.Background(), "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.NotContains(t, entry, "request_id")
	})

	t.Run("filters nil extractors", func(t *testing.T) {
		t.Parallel()

		log, buf := capture(nil, testExtractor, nil)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-7")
		log.InfoContext(ctx, "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "req-7", entry["request_id"])
	})

	t.Run("extractors survive WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()

		log, buf := capture(testExtractor)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-9")
		log.With(slog.String("component", "web")).WithGroup("detail").InfoContext(ctx, "hello", slog.Int("n", 1))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "web", entry["component"])
		detail, ok := entry["detail"].(map[string]any)
		require.True(t, ok)
		require.EqualValues(t, 1, detail["n"])
	})
}

func TestNewWithSentry(t *testing.T) {
	t.Parallel()

	t.Run("empty DSN falls back to stdout only", func(t *testing.T) {
		t.Parallel()

		log := logger.NewWithSentry(logger.SentryConfig{})
		require.NotNil(t, log)
	})
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Info("discarded")
}

package httputils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golddranks/sharp-pencil/pkg/httputils"
)

func TestStatusName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "OK", httputils.StatusName(200))
	require.Equal(t, "Not Found", httputils.StatusName(404))
	require.Equal(t, "Internal Server Error", httputils.StatusName(500))
	require.Equal(t, "UNKNOWN", httputils.StatusName(999))
}

func TestContentTypeWithCharset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mimetype string
		want     string
	}{
		{"text/html", "text/html; charset=UTF-8"},
		{"text/plain", "text/plain; charset=UTF-8"},
		{"application/xml", "application/xml; charset=UTF-8"},
		{"application/atom+xml", "application/atom+xml; charset=UTF-8"},
		{"text/html; charset=latin-1", "text/html; charset=latin-1"},
		{"application/json", "application/json"},
		{"image/png", "image/png"},
		{"application/octet-stream", "application/octet-stream"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.mimetype, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, httputils.ContentTypeWithCharset(tt.mimetype, "UTF-8"))
		})
	}
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	const size = 500

	tests := []struct {
		name   string
		header string
		start  int64
		length int64
		ok     bool
	}{
		{"closed range", "bytes=0-99", 0, 100, true},
		{"interior range", "bytes=100-199", 100, 100, true},
		{"open end", "bytes=400-", 400, 100, true},
		{"suffix", "bytes=-100", 400, 100, true},
		{"suffix larger than resource", "bytes=-1000", 0, 500, true},
		{"end clamped to size", "bytes=450-600", 450, 50, true},
		{"single byte", "bytes=0-0", 0, 1, true},
		{"multi-range unsupported", "bytes=0-1,5-9", 0, 0, false},
		{"start past end of resource", "bytes=500-", 0, 0, false},
		{"inverted", "bytes=10-5", 0, 0, false},
		{"zero suffix", "bytes=-0", 0, 0, false},
		{"wrong unit", "lines=0-5", 0, 0, false},
		{"garbage", "bytes=abc", 0, 0, false},
		{"empty", "", 0, 0, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, length, ok := httputils.ParseRange(tt.header, size)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.start, start)
				require.Equal(t, tt.length, length)
			}
		})
	}
}

func TestContentRange(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bytes 0-99/500", httputils.ContentRange(0, 100, 500))
	require.Equal(t, "bytes 400-499/500", httputils.ContentRange(400, 100, 500))
}

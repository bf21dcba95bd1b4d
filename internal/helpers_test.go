package internal

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedirect(t *testing.T) {
	t.Parallel()

	resp := Redirect("/target", 302)
	require.Equal(t, 302, resp.StatusCode)

	loc, ok := resp.Headers.Get("Location")
	require.True(t, ok)
	require.Equal(t, "/target", loc)

	body := readBody(t, resp)
	require.Contains(t, body, "Redirecting...")
	require.Contains(t, body, `<a href="/target">`)
}

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		want     string
		ok       bool
	}{
		{"plain file", "report.pdf", "static/report.pdf", true},
		{"nested file", "img/logo.png", "static/img/logo.png", true},
		{"absolute path", "/etc/passwd", "", false},
		{"bare parent", "..", "", false},
		{"leading traversal", "../secret", "", false},
		{"embedded traversal", "img/../../secret", "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SafeJoin("static", tt.filename)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, filepath.FromSlash(tt.want), got)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	t.Parallel()

	require.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;", Escape(`<a href="x">&</a>`))
	require.Equal(t, "plain", Escape("plain"))
}

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("z", size)), 0o600))
	return path
}

func TestSendFile(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "page.txt", 500)
		resp, err := SendFile(path, "text/plain", false)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		ct, _ := resp.ContentType()
		require.Equal(t, "text/plain; charset=UTF-8", ct)
		n, _ := resp.ContentLength()
		require.EqualValues(t, 500, n)
		require.Len(t, readBody(t, resp), 500)
		require.False(t, resp.Headers.Has("Content-Disposition"))
	})

	t.Run("as attachment", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "report.txt", 10)
		resp, err := SendFile(path, "text/plain", true)
		require.NoError(t, err)

		cd, _ := resp.Headers.Get("Content-Disposition")
		require.Equal(t, "attachment; filename=report.txt", cd)
		readBody(t, resp)
	})

	t.Run("missing file is 404", func(t *testing.T) {
		t.Parallel()

		_, err := SendFile(filepath.Join(t.TempDir(), "missing"), "text/plain", false)
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, 404, httpErr.Code)
	})

	t.Run("directory is 404", func(t *testing.T) {
		t.Parallel()

		_, err := SendFile(t.TempDir(), "text/plain", false)
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, 404, httpErr.Code)
	})
}

func TestSendFileRange(t *testing.T) {
	t.Parallel()

	t.Run("satisfiable range yields 206", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "data.bin", 500)
		resp, err := SendFileRange(path, "application/octet-stream", false, "bytes=100-199")
		require.NoError(t, err)

		require.Equal(t, http.StatusPartialContent, resp.StatusCode)
		cr, _ := resp.Headers.Get("Content-Range")
		require.Equal(t, "bytes 100-199/500", cr)
		n, _ := resp.ContentLength()
		require.EqualValues(t, 100, n)
		require.Len(t, readBody(t, resp), 100)
	})

	t.Run("suffix range", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "data.bin", 500)
		resp, err := SendFileRange(path, "application/octet-stream", false, "bytes=-100")
		require.NoError(t, err)

		require.Equal(t, http.StatusPartialContent, resp.StatusCode)
		cr, _ := resp.Headers.Get("Content-Range")
		require.Equal(t, "bytes 400-499/500", cr)
	})

	t.Run("multi-range falls back to full response", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "data.bin", 500)
		resp, err := SendFileRange(path, "application/octet-stream", false, "bytes=0-1,5-9")
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.False(t, resp.Headers.Has("Content-Range"))
		require.Len(t, readBody(t, resp), 500)
	})

	t.Run("unsatisfiable range falls back to full response", func(t *testing.T) {
		t.Parallel()

		path := writeTempFile(t, "data.bin", 500)
		resp, err := SendFileRange(path, "application/octet-stream", false, "bytes=900-")
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, readBody(t, resp), 500)
	})
}

func TestSendFromDirectory(t *testing.T) {
	t.Parallel()

	t.Run("guesses mimetype from extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.html"), []byte("<p>hi</p>"), 0o600))

		resp, err := SendFromDirectory(dir, "notes.html", false)
		require.NoError(t, err)

		ct, _ := resp.ContentType()
		require.True(t, strings.HasPrefix(ct, "text/html"))
		readBody(t, resp)
	})

	t.Run("unknown extension falls back to octet-stream", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.qqq"), []byte("x"), 0o600))

		resp, err := SendFromDirectory(dir, "blob.qqq", false)
		require.NoError(t, err)

		ct, _ := resp.ContentType()
		require.Equal(t, "application/octet-stream", ct)
		readBody(t, resp)
	})

	t.Run("traversal is refused with 404", func(t *testing.T) {
		t.Parallel()

		_, err := SendFromDirectory(t.TempDir(), "../passwd", false)
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, 404, httpErr.Code)
	})
}

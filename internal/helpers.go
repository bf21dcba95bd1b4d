package internal

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/golddranks/sharp-pencil/pkg/httputils"
)

// Redirect builds a response that redirects the client to location.
// The body is a small HTML stub for clients that ignore the Location header.
func Redirect(location string, code int) *Response {
	resp := NewResponse(fmt.Sprintf(
		"<!DOCTYPE HTML PUBLIC \"-//W3C//DTD HTML 3.2 Final//EN\">\n"+
			"<title>Redirecting...</title>\n<h1>Redirecting...</h1>\n"+
			"<p>You should be redirected automatically to target URL: \n"+
			"<a href=\"%s\">%s</a>.  If not click the link.\n",
		location, location))
	resp.StatusCode = code
	resp.SetContentType("text/html")
	resp.Headers.Set("Location", location)
	return resp
}

// SafeJoin joins directory and filename, refusing absolute filenames and
// parent-directory traversal. Returns ok=false for unsafe input.
func SafeJoin(directory, filename string) (string, bool) {
	if filepath.IsAbs(filename) || filename == ".." ||
		strings.HasPrefix(filename, "../") || strings.Contains(filename, "/../") {
		return "", false
	}
	return filepath.Join(directory, filename), true
}

// Escape replaces the special characters "&", "<", ">" and "\"" with
// HTML-safe entities.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
)

// SendFile sends the contents of a file to the client. Never pass filenames
// from user sources without checking them first; see SendFromDirectory for
// a safe variant. Returns a 404 error if path is not a regular file.
// asAttachment adds a Content-Disposition attachment header with the file's
// base name.
func SendFile(path, mimetype string, asAttachment bool) (*Response, error) {
	return sendFile(path, mimetype, asAttachment, "")
}

// SendFileRange is SendFile with support for single-range byte requests.
// A satisfiable "bytes=a-b" range header yields a 206 partial response with
// Content-Range; multi-range and unsatisfiable requests fall back to the
// full body with status 200.
func SendFileRange(path, mimetype string, asAttachment bool, rangeHeader string) (*Response, error) {
	return sendFile(path, mimetype, asAttachment, rangeHeader)
}

func sendFile(path, mimetype string, asAttachment bool, rangeHeader string) (*Response, error) {
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return nil, ErrNotFound("")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &UserError{Desc: fmt.Sprintf("couldn't open %s: %v", path, err), Err: err}
	}

	resp := NewEmptyResponse()
	size := st.Size()

	start, length, ranged := int64(0), size, false
	if rangeHeader != "" {
		start, length, ranged = httputils.ParseRange(rangeHeader, size)
	}
	if ranged {
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			f.Close()
			return nil, ErrInternal("")
		}
		resp.StatusCode = http.StatusPartialContent
		resp.Body = &boundedFile{r: io.LimitReader(f, length), f: f}
		resp.SetContentLength(length)
		resp.Headers.Set("Content-Range", httputils.ContentRange(start, length, size))
	} else {
		resp.Body = f
		resp.SetContentLength(size)
	}

	resp.SetContentType(mimetype)
	if asAttachment {
		resp.Headers.Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	}
	return resp, nil
}

// boundedFile reads a length-limited window of an open file and closes the
// file itself.
type boundedFile struct {
	r io.Reader
	f *os.File
}

func (b *boundedFile) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *boundedFile) Close() error               { return b.f.Close() }

// SendFromDirectory sends a file from a given directory, guessing the
// mimetype from the filename. This is a secure way to expose files from a
// folder: the filename is checked with SafeJoin first.
func SendFromDirectory(directory, filename string, asAttachment bool) (*Response, error) {
	path, ok := SafeJoin(directory, filename)
	if !ok {
		return nil, ErrNotFound("")
	}
	return SendFile(path, guessMimetype(path), asAttachment)
}

// SendFromDirectoryRange is SendFromDirectory with single-range support.
func SendFromDirectoryRange(directory, filename string, asAttachment bool, rangeHeader string) (*Response, error) {
	path, ok := SafeJoin(directory, filename)
	if !ok {
		return nil, ErrNotFound("")
	}
	return SendFileRange(path, guessMimetype(path), asAttachment, rangeHeader)
}

func guessMimetype(path string) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

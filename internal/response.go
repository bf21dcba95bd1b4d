package internal

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/golddranks/sharp-pencil/pkg/httputils"
	"github.com/golddranks/sharp-pencil/pkg/multidict"
)

// responseCharset is appended to text-like content types that lack an
// explicit charset parameter.
const responseCharset = "UTF-8"

// Response is a container for one HTTP response: status code, headers, and
// an optional body stream. It stays mutable until handed to the server
// runtime, after which it is consumed exactly once.
type Response struct {
	// Body is streamed to the client and closed afterwards. Nil means an
	// empty body.
	Body io.ReadCloser

	// Headers keeps insertion order and folds key case.
	Headers *multidict.MultiDict[string]

	// StatusCode defaults to 200.
	StatusCode int

	written bool
}

// NewEmptyResponse creates a response with status 200 and no body.
func NewEmptyResponse() *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers:    multidict.NewFolded[string](),
	}
}

// NewBytesResponse creates a 200 response carrying the given bytes.
// Content type defaults to "text/html; charset=UTF-8" and the content length
// is set automatically, matching the common case of rendering a page.
func NewBytesResponse(body []byte) *Response {
	resp := NewEmptyResponse()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.SetContentType("text/html")
	resp.SetContentLength(int64(len(body)))
	return resp
}

// NewResponse creates a 200 response from a string body.
func NewResponse(body string) *Response {
	return NewBytesResponse([]byte(body))
}

// StatusName returns the reason phrase for the response's status code.
func (r *Response) StatusName() string {
	return httputils.StatusName(r.StatusCode)
}

// ContentType returns the Content-Type header, if set.
func (r *Response) ContentType() (string, bool) {
	return r.Headers.Get("Content-Type")
}

// SetContentType sets the Content-Type header. Text-like mimetypes without
// an explicit charset get "; charset=UTF-8" appended.
func (r *Response) SetContentType(mimetype string) {
	r.Headers.Set("Content-Type", httputils.ContentTypeWithCharset(mimetype, responseCharset))
}

// ContentLength returns the Content-Length header, if set and numeric.
func (r *Response) ContentLength() (int64, bool) {
	v, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetContentLength sets the Content-Length header. It does not inspect the
// body; the caller keeps length and body consistent.
func (r *Response) SetContentLength(n int64) {
	r.Headers.Set("Content-Length", strconv.FormatInt(n, 10))
}

// SetCookie appends a Set-Cookie header. Invalid cookies are ignored.
func (r *Response) SetCookie(c *http.Cookie) {
	if v := c.String(); v != "" {
		r.Headers.Add("Set-Cookie", v)
	}
}

// Written reports whether the response has already been sent.
func (r *Response) Written() bool {
	return r.written
}

// WriteTo sends the response over the given writer: status line, every
// header pair in order, then the body. The body is closed even on write
// failure. A Response can be written at most once.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	if r.written {
		return errors.New("response already written")
	}
	r.written = true

	for _, p := range r.Headers.Pairs() {
		w.Header().Add(p.Key, p.Value)
	}
	w.WriteHeader(r.StatusCode)

	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	_, err := io.Copy(w, r.Body)
	return err
}

// Package httputils provides small helpers for dealing with HTTP data:
// status reason phrases, content-type charset handling, and byte-range
// parsing for single-range requests.
package httputils

import (
	"net/http"
	"strconv"
	"strings"
)

// StatusName returns the canonical reason phrase for an HTTP status code,
// or "UNKNOWN" if the code has none.
func StatusName(code int) string {
	if name := http.StatusText(code); name != "" {
		return name
	}
	return "UNKNOWN"
}

// ContentTypeWithCharset returns the full content type for a mimetype.
// Text-like media (text/*, application/xml, application/*+xml) without an
// explicit charset parameter gets "; charset=<charset>" appended; everything
// else is returned unchanged.
func ContentTypeWithCharset(mimetype, charset string) string {
	textLike := strings.HasPrefix(mimetype, "text/") ||
		mimetype == "application/xml" ||
		(strings.HasPrefix(mimetype, "application/") && strings.HasSuffix(mimetype, "+xml"))
	if textLike && !strings.Contains(mimetype, "charset") {
		return mimetype + "; charset=" + charset
	}
	return mimetype
}

// ParseRange parses a single-range Range header value ("bytes=a-b",
// "bytes=a-", "bytes=-n") against a resource of the given size. It returns
// the start offset and length of the requested slice.
//
// Multi-range requests, malformed values, and unsatisfiable ranges all
// return ok=false; callers are expected to fall back to a full response.
func ParseRange(header string, size int64) (start, length int64, ok bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) || size < 0 {
		return 0, 0, false
	}
	spec := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if strings.Contains(spec, ",") {
		// Multi-range is unsupported.
		return 0, 0, false
	}
	dash := strings.Index(spec, "-")
	if dash < 0 {
		return 0, 0, false
	}
	first, last := strings.TrimSpace(spec[:dash]), strings.TrimSpace(spec[dash+1:])

	if first == "" {
		// Suffix form: last n bytes.
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		if n > size {
			n = size
		}
		return size - n, n, true
	}

	s, err := strconv.ParseInt(first, 10, 64)
	if err != nil || s < 0 || s >= size {
		return 0, 0, false
	}
	if last == "" {
		return s, size - s, true
	}
	e, err := strconv.ParseInt(last, 10, 64)
	if err != nil || e < s {
		return 0, 0, false
	}
	if e >= size {
		e = size - 1
	}
	return s, e - s + 1, true
}

// ContentRange formats a Content-Range header value for a satisfied
// single-range request.
func ContentRange(start, length, size int64) string {
	return "bytes " + strconv.FormatInt(start, 10) + "-" +
		strconv.FormatInt(start+length-1, 10) + "/" + strconv.FormatInt(size, 10)
}

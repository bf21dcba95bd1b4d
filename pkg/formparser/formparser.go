// Package formparser decodes HTTP request bodies submitted as forms.
//
// It classifies the request content type and turns the body into two ordered
// multi-value maps: text fields and uploaded files. Url-encoded forms and
// multipart uploads are supported; any other content type yields two empty
// maps, since the absence of a form body is a normal case (GET requests).
package formparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/golddranks/sharp-pencil/pkg/multidict"
)

// Recognized form content types.
const (
	MimeURLEncoded = "application/x-www-form-urlencoded"
	MimeMultipart  = "multipart/form-data"
)

// Sentinel errors. Wrap them in the kind types below so callers can tell
// "could not read the network" apart from "read it fine but the payload is
// malformed".
var (
	// ErrMissingBoundary reports a multipart content type without the
	// mandatory boundary parameter.
	ErrMissingBoundary = errors.New("multipart content type without boundary parameter")

	// ErrInvalidUTF8 reports a text-classified part whose bytes are not
	// valid UTF-8.
	ErrInvalidUTF8 = errors.New("text field is not valid UTF-8")

	// ErrPayloadTooLarge reports a body exceeding the limit given to
	// ParseLimited.
	ErrPayloadTooLarge = errors.New("request body exceeds the size limit")
)

// StreamError is an I/O failure while draining the body.
type StreamError struct{ Err error }

func (e *StreamError) Error() string { return "form body read: " + e.Err.Error() }
func (e *StreamError) Unwrap() error { return e.Err }

// StructureError is a malformed payload: broken multipart framing or a
// missing boundary parameter.
type StructureError struct{ Err error }

func (e *StructureError) Error() string { return "form structure: " + e.Err.Error() }
func (e *StructureError) Unwrap() error { return e.Err }

// DecodingError is a text field that could not be decoded as UTF-8.
type DecodingError struct{ Err error }

func (e *DecodingError) Error() string { return "form decoding: " + e.Err.Error() }
func (e *DecodingError) Unwrap() error { return e.Err }

// Fields is the ordered map of decoded text fields.
type Fields = multidict.MultiDict[string]

// Files is the ordered map of raw file parts keyed by field name. The
// original filename is discarded.
type Files = multidict.MultiDict[[]byte]

// Parse drains body and decodes it according to contentType.
// The whole body is buffered in memory before parsing; use ParseLimited to
// bound the buffer.
func Parse(contentType string, body io.Reader) (*Fields, *Files, error) {
	return ParseLimited(contentType, body, 0)
}

// ParseLimited is Parse with a byte cap enforced during the drain.
// maxBytes <= 0 disables the cap. Exceeding it fails with ErrPayloadTooLarge
// before the payload is interpreted.
func ParseLimited(contentType string, body io.Reader, maxBytes int64) (*Fields, *Files, error) {
	fields, files := multidict.New[string](), multidict.New[[]byte]()

	mediatype, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// No recognizable content type: not an error, just no form data.
		return fields, files, nil
	}

	switch mediatype {
	case MimeURLEncoded:
		raw, err := drain(body, maxBytes)
		if err != nil {
			return nil, nil, err
		}
		parseURLEncoded(string(raw), fields)
		return fields, files, nil

	case MimeMultipart:
		boundary := params["boundary"]
		if boundary == "" {
			return nil, nil, &StructureError{Err: ErrMissingBoundary}
		}
		raw, err := drain(body, maxBytes)
		if err != nil {
			return nil, nil, err
		}
		if err := parseMultipart(raw, boundary, fields, files); err != nil {
			return nil, nil, err
		}
		return fields, files, nil

	default:
		return fields, files, nil
	}
}

// drain reads body fully into memory, distinguishing I/O failures from the
// payload-size cap.
func drain(body io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		// Read one byte past the cap so an exactly-full body still passes.
		raw, err := io.ReadAll(io.LimitReader(body, maxBytes+1))
		if err != nil {
			return nil, &StreamError{Err: err}
		}
		if int64(len(raw)) > maxBytes {
			return nil, ErrPayloadTooLarge
		}
		return raw, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &StreamError{Err: err}
	}
	return raw, nil
}

// ParseQuery decodes a raw query string into an ordered field map, using the
// same pair-splitting rules as url-encoded bodies. It performs no I/O.
func ParseQuery(raw string) *Fields {
	fields := multidict.New[string]()
	parseURLEncoded(raw, fields)
	return fields
}

// parseURLEncoded splits raw into key/value pairs, preserving order and
// duplicates. net/url.ParseQuery is not used because it collects values into
// an unordered map. Tokens that fail percent-decoding are kept raw rather
// than dropped.
func parseURLEncoded(raw string, fields *Fields) {
	for _, seg := range strings.Split(raw, "&") {
		for _, pair := range strings.Split(seg, ";") {
			if pair == "" {
				continue
			}
			key, value, _ := strings.Cut(pair, "=")
			fields.Add(unescape(key), unescape(value))
		}
	}
}

func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}

// parseMultipart iterates the parts of an in-memory multipart body.
// A part with a filename is a file part and stays raw bytes; everything else
// is a text field and must decode as UTF-8.
func parseMultipart(raw []byte, boundary string, fields *Fields, files *Files) error {
	mr := multipart.NewReader(bytes.NewReader(raw), boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &StructureError{Err: err}
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return &StructureError{Err: err}
		}

		name := part.FormName()
		if part.FileName() != "" {
			files.Add(name, data)
			continue
		}
		if !utf8.Valid(data) {
			return &DecodingError{Err: fmt.Errorf("field %q: %w", name, ErrInvalidUTF8)}
		}
		fields.Add(name, string(data))
	}
}

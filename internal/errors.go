package internal

import (
	"errors"
	"fmt"

	"github.com/golddranks/sharp-pencil/pkg/formparser"
	"github.com/golddranks/sharp-pencil/pkg/httputils"
)

// HTTPError is a structured HTTP condition with a status code and canonical
// description. It implements the error interface and is always convertible
// to a Response.
type HTTPError struct {
	// Err is the underlying cause, if any (for logging, not exposed to users).
	Err error

	// Message is an optional detail message. When empty, Error() falls back
	// to the canonical reason phrase.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Description()
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Description returns the canonical reason phrase for the status code.
// It is the discriminant used for error-handler lookup.
func (e *HTTPError) Description() string {
	return httputils.StatusName(e.Code)
}

// ToResponse converts the error into its default HTTP error response.
func (e *HTTPError) ToResponse() *Response {
	name := e.Description()
	body := fmt.Sprintf("<!DOCTYPE HTML PUBLIC \"-//W3C//DTD HTML 3.2 Final//EN\">\n"+
		"<title>%d %s</title>\n<h1>%s</h1>\n", e.Code, name, name)
	resp := NewResponse(body)
	resp.StatusCode = e.Code
	return resp
}

// UserError is an application-defined condition identified by a description
// string. It is distinct from HTTP errors but eligible for handler lookup by
// the same mechanism.
type UserError struct {
	Err  error
	Desc string
}

// NewUserError creates a UserError with the given description.
func NewUserError(desc string) *UserError {
	return &UserError{Desc: desc}
}

func (e *UserError) Error() string { return e.Desc }

func (e *UserError) Unwrap() error { return e.Err }

// Description returns the discriminant used for error-handler lookup.
func (e *UserError) Description() string { return e.Desc }

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string) *HTTPError  { return NewHTTPError(400, message) }
func ErrUnauthorized(message string) *HTTPError { return NewHTTPError(401, message) }
func ErrForbidden(message string) *HTTPError   { return NewHTTPError(403, message) }
func ErrNotFound(message string) *HTTPError    { return NewHTTPError(404, message) }
func ErrMethodNotAllowed(message string) *HTTPError { return NewHTTPError(405, message) }
func ErrPayloadTooLarge(message string) *HTTPError  { return NewHTTPError(413, message) }
func ErrInternal(message string) *HTTPError    { return NewHTTPError(500, message) }

// Abort returns an HTTPError for the given status code, for use inside view
// functions:
//
//	func view(r *Request, args ViewArgs) (*Response, error) {
//	    return nil, pencil.Abort(404)
//	}
func Abort(code int) error {
	return NewHTTPError(code, "")
}

// discriminant returns the handler-lookup key for an error, or "" when the
// error carries none.
func discriminant(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Description()
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Description()
	}
	return ""
}

// normalizeError maps body-parsing failures onto the HTTP error taxonomy so
// the cascade can resolve them by discriminant. Errors already in the
// taxonomy pass through untouched.
func normalizeError(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return err
	}
	if errors.Is(err, formparser.ErrPayloadTooLarge) {
		return &HTTPError{Code: 413, Err: err}
	}
	var streamErr *formparser.StreamError
	if errors.As(err, &streamErr) {
		return &HTTPError{Code: 500, Err: err}
	}
	var structErr *formparser.StructureError
	if errors.As(err, &structErr) {
		return &HTTPError{Code: 400, Err: err}
	}
	var decErr *formparser.DecodingError
	if errors.As(err, &decErr) {
		return &HTTPError{Code: 400, Err: err}
	}
	return err
}

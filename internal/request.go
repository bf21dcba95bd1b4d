package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/golddranks/sharp-pencil/pkg/formparser"
	"github.com/golddranks/sharp-pencil/pkg/lazycell"
	"github.com/golddranks/sharp-pencil/pkg/logger"
	"github.com/golddranks/sharp-pencil/pkg/multidict"
)

// ViewArgs holds the named URL parameters extracted by the router.
type ViewArgs map[string]string

// requestIDKey is the context key under which the request ID is stored.
type requestIDKey struct{}

// RequestIDExtractor returns a logger extractor that adds "request_id" to
// every log entry carrying a request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}

// Request wraps one inbound HTTP request for the lifetime of its handling.
// It exposes the routing outcome stamped by the dispatcher and lazy,
// exactly-once-computed accessors for query args, form fields, uploaded
// files, and the JSON body.
//
// A Request is owned by the single goroutine handling it; its accessors are
// not safe for concurrent use.
type Request struct {
	raw *http.Request

	// ID is a per-request identifier used in log attributes.
	ID string

	// Rule and ViewArgs are set when routing matched a rule.
	Rule     *Rule
	ViewArgs ViewArgs

	// RoutingRedirect is set when routing requested a redirect.
	RoutingRedirect *RedirectTarget

	// RoutingError is set when routing failed.
	RoutingError *HTTPError

	maxBodyBytes int64

	args  lazycell.Cell[*multidict.MultiDict[string]]
	form  lazycell.Cell[*formparser.Fields]
	files lazycell.Cell[*formparser.Files]
	json  lazycell.Cell[any]
}

// NewRequest wraps an inbound request. maxBodyBytes bounds any body drain;
// zero disables the cap.
func NewRequest(r *http.Request, maxBodyBytes int64) *Request {
	id := uuid.NewString()
	r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
	return &Request{raw: r, ID: id, maxBodyBytes: maxBodyBytes}
}

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

// Context returns the request's context, which carries the request ID.
func (r *Request) Context() context.Context { return r.raw.Context() }

// Method returns the request method.
func (r *Request) Method() string { return r.raw.Method }

// Path returns the requested path.
func (r *Request) Path() string { return r.raw.URL.Path }

// FullPath returns the requested path including the query string.
func (r *Request) FullPath() string {
	if q := r.QueryString(); q != "" {
		return r.Path() + "?" + q
	}
	return r.Path()
}

// Host returns the host the request was sent to, including the port if any.
func (r *Request) Host() string { return r.raw.Host }

// QueryString returns the raw query string.
func (r *Request) QueryString() string { return r.raw.URL.RawQuery }

// Scheme returns "https" for TLS connections and "http" otherwise.
func (r *Request) Scheme() string {
	if r.raw.TLS != nil {
		return "https"
	}
	return "http"
}

// IsSecure reports whether the request arrived over TLS.
func (r *Request) IsSecure() bool { return r.Scheme() == "https" }

// HostURL returns the scheme and host with a trailing slash.
func (r *Request) HostURL() string {
	return r.Scheme() + "://" + r.Host() + "/"
}

// URL returns the full requested URL.
func (r *Request) URL() string {
	return r.HostURL() + strings.TrimPrefix(r.FullPath(), "/")
}

// BaseURL returns the requested URL without the query string.
func (r *Request) BaseURL() string {
	return r.HostURL() + strings.TrimPrefix(r.Path(), "/")
}

// Header returns the first request header value for name.
func (r *Request) Header(name string) string { return r.raw.Header.Get(name) }

// Headers returns a snapshot of the request headers as an ordered,
// case-folded multi-value map.
func (r *Request) Headers() *multidict.MultiDict[string] {
	headers := multidict.NewFolded[string]()
	for name, values := range r.raw.Header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}
	return headers
}

// Cookies returns the request cookies.
func (r *Request) Cookies() []*http.Cookie { return r.raw.Cookies() }

// RemoteAddr returns the client network address.
func (r *Request) RemoteAddr() string { return r.raw.RemoteAddr }

// Endpoint returns the endpoint of the matched rule, or "".
func (r *Request) Endpoint() string {
	if r.Rule == nil {
		return ""
	}
	return r.Rule.Endpoint
}

// ModuleName returns the part of a dotted endpoint before the last dot,
// or "" for plain endpoints.
func (r *Request) ModuleName() string {
	ep := r.Endpoint()
	if i := strings.LastIndex(ep, "."); i >= 0 {
		return ep[:i]
	}
	return ""
}

// Args returns the parsed query parameters. The query string is decoded on
// first call, with order and duplicates preserved, and cached for the rest
// of the request's life. No body I/O is involved.
func (r *Request) Args() *multidict.MultiDict[string] {
	if v, ok := r.args.Get(); ok {
		return v
	}
	args := formparser.ParseQuery(r.QueryString())
	_ = r.args.Fill(args)
	return args
}

// Form returns the decoded form fields. The first call to Form or Files
// drains and parses the body once, filling both caches atomically; later
// calls return the cache without touching the body.
func (r *Request) Form() (*formparser.Fields, error) {
	if err := r.loadFormData(); err != nil {
		return nil, err
	}
	v, _ := r.form.Get()
	return v, nil
}

// Files returns the uploaded file parts, keyed by field name.
// See Form for the shared caching contract.
func (r *Request) Files() (*formparser.Files, error) {
	if err := r.loadFormData(); err != nil {
		return nil, err
	}
	v, _ := r.files.Get()
	return v, nil
}

func (r *Request) loadFormData() error {
	if r.form.Filled() {
		return nil
	}
	fields, files, err := formparser.ParseLimited(
		r.Header("Content-Type"), r.raw.Body, r.maxBodyBytes)
	if err != nil {
		return err
	}
	_ = r.form.Fill(fields)
	_ = r.files.Fill(files)
	return nil
}

// JSON drains the body and decodes it as a JSON document on first call.
// A decode failure caches a nil document rather than failing the caller;
// only I/O failures while draining are reported.
func (r *Request) JSON() (any, error) {
	if v, ok := r.json.Get(); ok {
		return v, nil
	}
	raw, err := r.drainBody()
	if err != nil {
		return nil, err
	}
	var doc any
	if json.Unmarshal(raw, &doc) != nil {
		doc = nil
	}
	_ = r.json.Fill(doc)
	return doc, nil
}

func (r *Request) drainBody() ([]byte, error) {
	if r.raw.Body == nil {
		return nil, nil
	}
	if r.maxBodyBytes > 0 {
		raw, err := io.ReadAll(io.LimitReader(r.raw.Body, r.maxBodyBytes+1))
		if err != nil {
			return nil, &formparser.StreamError{Err: err}
		}
		if int64(len(raw)) > r.maxBodyBytes {
			return nil, formparser.ErrPayloadTooLarge
		}
		return raw, nil
	}
	raw, err := io.ReadAll(r.raw.Body)
	if err != nil {
		return nil, &formparser.StreamError{Err: err}
	}
	return raw, nil
}

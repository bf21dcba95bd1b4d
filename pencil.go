package pencil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/golddranks/sharp-pencil/internal"
	"github.com/golddranks/sharp-pencil/pkg/logger"
)

// Type aliases - public API
type (
	// App is the central application object. It orchestrates the
	// per-request dispatch pipeline and is immutable after New.
	App = internal.App

	// Request wraps one inbound HTTP request and exposes lazily-computed
	// accessors for query args, form fields, uploaded files, and JSON.
	Request = internal.Request

	// Response is a container for one HTTP response: status code, headers,
	// and an optional body stream.
	Response = internal.Response

	// Rule is a routing entry mapping a method/path pattern to an endpoint.
	Rule = internal.Rule

	// ViewArgs holds the named URL parameters extracted by the router.
	ViewArgs = internal.ViewArgs

	// ViewFunc is application logic bound to a rule.
	ViewFunc = internal.ViewFunc

	// Resolver is the routing collaborator interface.
	Resolver = internal.Resolver

	// Resolution is the outcome of resolving a request.
	Resolution = internal.Resolution

	// RedirectTarget is a routing outcome instructing the client to go
	// elsewhere.
	RedirectTarget = internal.RedirectTarget

	// HTTPError is a structured HTTP condition, always convertible to a
	// Response.
	HTTPError = internal.HTTPError

	// UserError is an application-defined error identified by description.
	UserError = internal.UserError

	// BeforeRequestFunc runs before dispatch.
	BeforeRequestFunc = internal.BeforeRequestFunc

	// AfterRequestFunc runs after dispatch and may mutate the response.
	AfterRequestFunc = internal.AfterRequestFunc

	// TeardownRequestFunc runs unconditionally at the end of dispatch.
	TeardownRequestFunc = internal.TeardownRequestFunc

	// ErrorHandlerFunc handles errors matched by discriminant.
	ErrorHandlerFunc = internal.ErrorHandlerFunc

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Config holds server-side settings.
	Config = internal.Config

	// ContextExtractor extracts a slog attribute from context. Used with
	// WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// Constructors

// New creates a new application with the given options. The App is
// immutable after creation.
//
// Example:
//
//	app := pencil.New(
//	    pencil.WithRoute("/", []string{"GET"}, "index", index),
//	    pencil.WithRoute("/user/{id}", []string{"GET"}, "user.show", showUser),
//	    pencil.WithLogger("web"),
//	)
//
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRequest wraps an inbound request for dispatch outside of App.ServeHTTP,
// e.g. in tests. maxBodyBytes bounds any body drain; zero disables the cap.
func NewRequest(r *http.Request, maxBodyBytes int64) *Request {
	return internal.NewRequest(r, maxBodyBytes)
}

// App options

// WithRoute connects a URL rule: requests matching pattern under one of the
// given methods resolve to endpoint and invoke view.
func WithRoute(pattern string, methods []string, endpoint string, view ViewFunc) Option {
	return internal.WithRoute(pattern, methods, endpoint, view)
}

// WithRedirect registers a pattern whose resolution is a client redirect.
func WithRedirect(pattern, location string, code int) Option {
	return internal.WithRedirect(pattern, location, code)
}

// WithResolver replaces the default pattern-matching resolver.
func WithResolver(r Resolver) Option {
	return internal.WithResolver(r)
}

// WithView binds a view to an endpoint without registering a rule. Useful
// together with WithResolver.
func WithView(endpoint string, view ViewFunc) Option {
	return internal.WithView(endpoint, view)
}

// WithBeforeRequest registers functions to run before each dispatch.
func WithBeforeRequest(fns ...BeforeRequestFunc) Option {
	return internal.WithBeforeRequest(fns...)
}

// WithAfterRequest registers functions to run after each dispatch.
func WithAfterRequest(fns ...AfterRequestFunc) Option {
	return internal.WithAfterRequest(fns...)
}

// WithTeardownRequest registers functions to run at the end of each
// dispatch, regardless of whether it succeeded.
func WithTeardownRequest(fns ...TeardownRequestFunc) Option {
	return internal.WithTeardownRequest(fns...)
}

// WithErrorHandler registers a handler for an error discriminant: an HTTP
// reason phrase ("Not Found") or a user-error description. The last
// registration for a discriminant wins.
func WithErrorHandler(discriminant string, fn ErrorHandlerFunc) Option {
	return internal.WithErrorHandler(discriminant, fn)
}

// WithLogger creates a JSON logger with a component name and optional
// extractors. The request ID is always extracted.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithConfig replaces the configuration snapshot.
func WithConfig(cfg Config) Option {
	return internal.WithConfig(cfg)
}

// WithMaxBodyBytes caps how much of a request body is buffered before
// parsing. Zero disables the cap.
func WithMaxBodyBytes(n int64) Option {
	return internal.WithMaxBodyBytes(n)
}

// Configuration

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	return internal.LoadConfig()
}

// LoadConfigFile builds a Config from defaults, a YAML file, and the
// environment, in that order of precedence.
func LoadConfigFile(path string) (Config, error) {
	return internal.LoadConfigFile(path)
}

// Run options

// Logger sets the runtime logger. Defaults to the application logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Helpers

// Abort returns an HTTPError for the given status code, for use inside
// view functions.
func Abort(code int) error {
	return internal.Abort(code)
}

// Redirect builds a response redirecting the client to location.
func Redirect(location string, code int) *Response {
	return internal.Redirect(location, code)
}

// SendFile sends the contents of a file to the client. Never pass filenames
// from user sources without checking them first.
func SendFile(path, mimetype string, asAttachment bool) (*Response, error) {
	return internal.SendFile(path, mimetype, asAttachment)
}

// SendFileRange is SendFile with support for single-range byte requests;
// multi-range and unsatisfiable requests fall back to a full response.
func SendFileRange(path, mimetype string, asAttachment bool, rangeHeader string) (*Response, error) {
	return internal.SendFileRange(path, mimetype, asAttachment, rangeHeader)
}

// SendFromDirectory safely sends a file from a directory, guessing its
// mimetype.
func SendFromDirectory(directory, filename string, asAttachment bool) (*Response, error) {
	return internal.SendFromDirectory(directory, filename, asAttachment)
}

// SendFromDirectoryRange is SendFromDirectory with single-range support.
func SendFromDirectoryRange(directory, filename string, asAttachment bool, rangeHeader string) (*Response, error) {
	return internal.SendFromDirectoryRange(directory, filename, asAttachment, rangeHeader)
}

// SafeJoin joins directory and filename, refusing traversal outside the
// directory.
func SafeJoin(directory, filename string) (string, bool) {
	return internal.SafeJoin(directory, filename)
}

// Escape replaces "&", "<", ">" and "\"" with HTML-safe entities.
func Escape(s string) string {
	return internal.Escape(s)
}

// Response constructors

// NewResponse creates a 200 response from a string body.
func NewResponse(body string) *Response {
	return internal.NewResponse(body)
}

// NewBytesResponse creates a 200 response carrying the given bytes.
func NewBytesResponse(body []byte) *Response {
	return internal.NewBytesResponse(body)
}

// NewEmptyResponse creates a response with status 200 and no body.
func NewEmptyResponse() *Response {
	return internal.NewEmptyResponse()
}

// Error constructors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// NewUserError creates a UserError with the given description.
func NewUserError(desc string) *UserError {
	return internal.NewUserError(desc)
}

var (
	ErrBadRequest       = internal.ErrBadRequest
	ErrUnauthorized     = internal.ErrUnauthorized
	ErrForbidden        = internal.ErrForbidden
	ErrNotFound         = internal.ErrNotFound
	ErrMethodNotAllowed = internal.ErrMethodNotAllowed
	ErrPayloadTooLarge  = internal.ErrPayloadTooLarge
	ErrInternal         = internal.ErrInternal
)

// RequestIDExtractor returns a logger extractor adding "request_id" to log
// entries carrying a request context.
func RequestIDExtractor() ContextExtractor {
	return internal.RequestIDExtractor()
}

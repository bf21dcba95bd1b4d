package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/golddranks/sharp-pencil/pkg/logger"
)

// ViewFunc is application logic bound to a rule. It receives the request
// and the URL parameters extracted by the router and returns a response or
// a structured error.
type ViewFunc func(r *Request, args ViewArgs) (*Response, error)

// BeforeRequestFunc runs before dispatch. It is side-effecting only and
// cannot short-circuit dispatch; a returned error is logged.
type BeforeRequestFunc func(r *Request) error

// AfterRequestFunc runs after a response has materialized and may mutate
// its headers and body. A returned error is logged.
type AfterRequestFunc func(r *Request, resp *Response) error

// TeardownRequestFunc runs unconditionally at the end of every dispatch,
// regardless of success. It receives the dispatch error (nil on success);
// its own return value is logged and discarded.
type TeardownRequestFunc func(r *Request, dispatchErr error) error

// ErrorHandlerFunc handles an error matched by its discriminant. Its result
// replaces the failed dispatch outcome.
type ErrorHandlerFunc func(r *Request, err error) (*Response, error)

// App is the central application object. It orchestrates the per-request
// pipeline: before-request hooks, route resolution, view invocation, the
// error cascade, after-request hooks, and teardown.
//
// An App is immutable after New: the hook lists and handler registries are
// a startup snapshot shared by all request-handling goroutines.
type App struct {
	resolver      Resolver
	views         map[string]ViewFunc
	errorHandlers map[string]ErrorHandlerFunc

	beforeRequest   []BeforeRequestFunc
	afterRequest    []AfterRequestFunc
	teardownRequest []TeardownRequestFunc

	rules     []*Rule
	redirects []redirectRule

	logger *slog.Logger
	cfg    Config
}

// New creates an application with the given options. The App is immutable
// after creation.
func New(opts ...Option) *App {
	a := &App{
		views:         make(map[string]ViewFunc),
		errorHandlers: make(map[string]ErrorHandlerFunc),
		logger:        logger.NewNope(),
		cfg:           DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.resolver == nil {
		a.resolver = newChiResolver(a.rules, a.redirects)
	}
	return a
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Config returns the application configuration snapshot.
func (a *App) Config() Config { return a.cfg }

// Handle runs the full dispatch pipeline for one request. It is total: any
// failure, including a panicking view, is converted into a Response, and
// teardown hooks run no matter what.
func (a *App) Handle(req *Request) *Response {
	var dispatchErr error
	resp := a.safeDispatch(req, &dispatchErr)

	for _, hook := range a.teardownRequest {
		if err := hook(req, dispatchErr); err != nil {
			a.logger.ErrorContext(req.Context(), "teardown hook failed", slog.Any("error", err))
		}
	}
	return resp
}

// safeDispatch shields the pipeline: a panic becomes a logged 500.
func (a *App) safeDispatch(req *Request, dispatchErr *error) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.ErrorContext(req.Context(), "panic during dispatch",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			*dispatchErr = &HTTPError{Code: 500, Message: "panic during dispatch"}
			resp = ErrInternal("").ToResponse()
		}
	}()
	return a.fullDispatch(req, dispatchErr)
}

// fullDispatch performs pre-processing, dispatch, the error cascade, and
// post-processing.
func (a *App) fullDispatch(req *Request, dispatchErr *error) *Response {
	a.preprocessRequest(req)

	resp, err := a.dispatchRequest(req)
	if err != nil {
		*dispatchErr = err
		resp = a.handleDispatchError(req, err)
	}

	a.processResponse(req, resp)
	return resp
}

func (a *App) preprocessRequest(req *Request) {
	for _, hook := range a.beforeRequest {
		if err := hook(req); err != nil {
			a.logger.ErrorContext(req.Context(), "before-request hook failed", slog.Any("error", err))
		}
	}
}

// dispatchRequest resolves the request, stamps the routing outcome on it,
// and invokes the matched view.
func (a *App) dispatchRequest(req *Request) (*Response, error) {
	res := a.resolver.Resolve(req.Method(), req.Host(), req.Path(), req.QueryString())
	switch {
	case res.Redirect != nil:
		req.RoutingRedirect = res.Redirect
		return Redirect(res.Redirect.Location, res.Redirect.Code), nil

	case res.Err != nil:
		req.RoutingError = res.Err
		return nil, res.Err

	default:
		req.Rule = res.Rule
		req.ViewArgs = res.Args
		view, ok := a.views[res.Rule.Endpoint]
		if !ok {
			return nil, ErrInternal("no view registered for endpoint " + res.Rule.Endpoint)
		}
		return view(req, res.Args)
	}
}

// handleDispatchError resolves an error to a response. A handler registered
// for the error's discriminant takes precedence; its result stands even if
// the handler itself misbehaves, in which case this one response degrades
// to a 500 while the process stays healthy. Without a handler, HTTP errors
// map to their default responses and everything else becomes a logged 500.
func (a *App) handleDispatchError(req *Request, err error) *Response {
	err = normalizeError(err)

	if handler, ok := a.errorHandlers[discriminant(err)]; ok {
		resp, herr := handler(req, err)
		if herr != nil || resp == nil {
			a.logger.ErrorContext(req.Context(), "error handler failed",
				slog.String("discriminant", discriminant(err)),
				slog.Any("error", herr))
			return ErrInternal("").ToResponse()
		}
		return resp
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.ToResponse()
	}

	a.logger.ErrorContext(req.Context(), "unhandled dispatch error", slog.Any("error", err))
	return ErrInternal("").ToResponse()
}

func (a *App) processResponse(req *Request, resp *Response) {
	for _, hook := range a.afterRequest {
		if err := hook(req, resp); err != nil {
			a.logger.ErrorContext(req.Context(), "after-request hook failed", slog.Any("error", err))
		}
	}
}

// ServeHTTP bridges the dispatch pipeline to net/http.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := NewRequest(r, a.cfg.MaxBodyBytes)
	resp := a.Handle(req)
	if err := resp.WriteTo(w); err != nil {
		a.logger.ErrorContext(req.Context(), "write response failed", slog.Any("error", err))
	}
}

// Run starts the HTTP server on addr and blocks until shutdown. An empty
// addr falls back to the configured listen address.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr == "" {
		addr = a.cfg.Addr
	}
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(runtimeConfig{
		handler:       a,
		address:       addr,
		server:        a.cfg,
		logger:        cfg.logger,
		shutdownHooks: cfg.shutdownHooks,
		baseCtx:       cfg.baseCtx,
	})
}

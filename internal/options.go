package internal

import (
	"log/slog"

	"github.com/golddranks/sharp-pencil/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithRoute connects a URL rule: requests matching pattern under one of the
// given methods resolve to endpoint and invoke view.
//
// Example:
//
//	pencil.New(
//	    pencil.WithRoute("/user/{id}", []string{"GET"}, "user.show", showUser),
//	)
func WithRoute(pattern string, methods []string, endpoint string, view ViewFunc) Option {
	return func(a *App) {
		a.rules = append(a.rules, &Rule{Pattern: pattern, Methods: methods, Endpoint: endpoint})
		a.views[endpoint] = view
	}
}

// WithRedirect registers a pattern whose resolution is a client redirect
// instead of a view invocation.
func WithRedirect(pattern, location string, code int) Option {
	return func(a *App) {
		a.redirects = append(a.redirects, redirectRule{Pattern: pattern, Location: location, Code: code})
	}
}

// WithResolver replaces the default pattern-matching resolver. Rules
// registered through WithRoute still bind their views by endpoint.
func WithResolver(r Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithView binds a view to an endpoint without registering a rule. Useful
// together with WithResolver when resolution is computed elsewhere.
func WithView(endpoint string, view ViewFunc) Option {
	return func(a *App) {
		a.views[endpoint] = view
	}
}

// WithBeforeRequest registers functions to run before each dispatch, in
// registration order. They cannot short-circuit dispatch.
func WithBeforeRequest(fns ...BeforeRequestFunc) Option {
	return func(a *App) {
		a.beforeRequest = append(a.beforeRequest, fns...)
	}
}

// WithAfterRequest registers functions to run after each dispatch, in
// registration order. Each may mutate the materialized response.
func WithAfterRequest(fns ...AfterRequestFunc) Option {
	return func(a *App) {
		a.afterRequest = append(a.afterRequest, fns...)
	}
}

// WithTeardownRequest registers functions to run at the end of each
// dispatch, regardless of whether it succeeded.
func WithTeardownRequest(fns ...TeardownRequestFunc) Option {
	return func(a *App) {
		a.teardownRequest = append(a.teardownRequest, fns...)
	}
}

// WithErrorHandler registers a handler for an error discriminant: an HTTP
// reason phrase ("Not Found") or a user-error description. At most one
// handler per discriminant; the last registration wins.
func WithErrorHandler(discriminant string, fn ErrorHandlerFunc) Option {
	return func(a *App) {
		a.errorHandlers[discriminant] = fn
	}
}

// WithLogger creates a JSON logger with a component name and the request-id
// extractor, so every request-scoped log entry carries the request ID.
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		extractors = append([]logger.ContextExtractor{RequestIDExtractor()}, extractors...)
		a.logger = logger.New(extractors...).With(slog.String("component", component))
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithConfig replaces the whole configuration snapshot, typically one built
// by LoadConfig or LoadConfigFile.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithMaxBodyBytes caps how much of a request body is buffered before
// parsing. Zero disables the cap.
func WithMaxBodyBytes(n int64) Option {
	return func(a *App) {
		a.cfg.MaxBodyBytes = n
	}
}

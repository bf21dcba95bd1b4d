package internal

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Rule is a routing entry mapping an HTTP method/path pattern to an
// endpoint identifier.
type Rule struct {
	Pattern  string
	Endpoint string
	Methods  []string
}

// RedirectTarget is a routing outcome instructing the client to go
// elsewhere.
type RedirectTarget struct {
	Location string
	Code     int
}

// Resolution is the outcome of resolving a request against the routing
// table. Exactly one of Rule (+Args), Redirect, or Err is set.
type Resolution struct {
	Rule     *Rule
	Args     ViewArgs
	Redirect *RedirectTarget
	Err      *HTTPError
}

// Resolver is the routing collaborator. The core does not specify how
// resolution is computed; the default implementation matches patterns with
// chi, and tests may stub the interface.
type Resolver interface {
	Resolve(method, host, path, query string) Resolution
}

// redirectRule is a registered redirect entry.
type redirectRule struct {
	Pattern  string
	Location string
	Code     int
}

// chiResolver resolves requests against a chi routing tree built once at
// startup. Host and query take no part in matching.
type chiResolver struct {
	mux     *chi.Mux
	rules   map[string]*Rule
	targets map[string]*RedirectTarget
}

// methods probed when deciding between 404 and 405.
var knownMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

var nopHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

func newChiResolver(rules []*Rule, redirects []redirectRule) *chiResolver {
	r := &chiResolver{
		mux:     chi.NewRouter(),
		rules:   make(map[string]*Rule),
		targets: make(map[string]*RedirectTarget),
	}
	for _, rule := range rules {
		for _, m := range rule.Methods {
			r.mux.Method(strings.ToUpper(m), rule.Pattern, nopHandler)
		}
		r.rules[rule.Pattern] = rule
	}
	for _, rd := range redirects {
		r.mux.Method(http.MethodGet, rd.Pattern, nopHandler)
		r.mux.Method(http.MethodHead, rd.Pattern, nopHandler)
		r.targets[rd.Pattern] = &RedirectTarget{Location: rd.Location, Code: rd.Code}
	}
	return r
}

func (r *chiResolver) Resolve(method, host, path, query string) Resolution {
	method = strings.ToUpper(method)

	rctx := chi.NewRouteContext()
	if r.mux.Match(rctx, method, path) {
		pattern := rctx.RoutePattern()
		if target, ok := r.targets[pattern]; ok {
			return Resolution{Redirect: target}
		}
		rule, ok := r.rules[pattern]
		if !ok {
			return Resolution{Err: ErrInternal("no rule for pattern " + pattern)}
		}
		args := ViewArgs{}
		for i, k := range rctx.URLParams.Keys {
			if k != "*" {
				args[k] = rctx.URLParams.Values[i]
			}
		}
		return Resolution{Rule: rule, Args: args}
	}

	// The path may be routable under another method.
	for _, m := range knownMethods {
		if m == method {
			continue
		}
		probe := chi.NewRouteContext()
		if r.mux.Match(probe, m, path) {
			return Resolution{Err: ErrMethodNotAllowed("")}
		}
	}
	return Resolution{Err: ErrNotFound("")}
}

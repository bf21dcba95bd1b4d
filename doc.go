// Package pencil is a small server-side web framework centered on an
// explicit request dispatch pipeline.
//
// An application is built once from options and is immutable afterwards:
//
//	app := pencil.New(
//	    pencil.WithRoute("/", []string{"GET"}, "index", index),
//	    pencil.WithRoute("/user/{id}", []string{"GET"}, "user.show", showUser),
//	    pencil.WithErrorHandler("Not Found", notFound),
//	    pencil.WithLogger("web"),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// Each request flows through the same pipeline: before-request hooks, route
// resolution, the matched view, the error cascade, after-request hooks, and
// finally teardown hooks that run no matter what. Views return a *Response
// or an error; errors carry a discriminant (the HTTP reason phrase for
// HTTPError, the description for UserError) that selects a registered error
// handler, and anything left unhandled degrades to a default response while
// the process stays healthy.
//
// Request data is parsed lazily and at most once: Args, Form, Files, and
// JSON each consume their input on first access and return the cached value
// afterwards. Form fields and query arguments preserve arrival order and
// duplicates.
//
// The pkg/ directory holds standalone utilities (multidict, lazycell,
// formparser, httputils, logger) that do not depend on the framework and
// can be used on their own.
package pencil

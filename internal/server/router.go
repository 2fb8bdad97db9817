package server

import (
	"net/http"
)

// BasicRouter implements [Router] over [http.ServeMux], relying on Go 1.22
// method and wildcard patterns ("GET /api/user/{username}/profile").
//
// Every registered route is wrapped by the middleware stack, so panic
// recovery, request logging, and the route guard run in front of each API
// handler.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates an empty router.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use appends [Middleware] to the stack. The first middleware added becomes
// the outermost wrapper on every route.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the given HTTP method and path pattern.
//
// The mux enforces the method: a request to a registered path with the wrong
// method gets 405 with an Allow header and never reaches the handler.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	pattern := path
	if method != "" {
		pattern = method + " " + path
	}

	r.mux.Handle(pattern, r.Apply(handler))
}

// Handler registers a custom [Handler] implementation under every pattern it
// reports from [Handler.Routes].
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

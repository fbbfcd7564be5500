package server

import (
	"net/http"
	"slices"
)

// BasicRouter mounts handlers on an [http.ServeMux] behind a shared middleware chain.
//
// Every pattern it mounts is recorded, so the server can report its route table.
type BasicRouter struct {
	mux    *http.ServeMux
	chain  []Middleware
	routes []string
}

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the chain. Routes mounted before the call are not wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle mounts h for a single method and path.
func (r *BasicRouter) Handle(method, path string, h http.Handler) {
	r.mount(r.wrap(h), method+" "+path)
}

// Handler mounts h once for each pattern it reports in [Handler.Routes].
func (r *BasicRouter) Handler(h Handler) {
	r.mount(r.wrap(h), h.Routes()...)
}

// Routes lists mounted patterns in registration order.
func (r *BasicRouter) Routes() []string {
	return slices.Clone(r.routes)
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *BasicRouter) mount(h http.Handler, patterns ...string) {
	for _, p := range patterns {
		r.mux.Handle(p, h)
		r.routes = append(r.routes, p)
	}
}

// wrap applies the chain so the first middleware added runs outermost.
func (r *BasicRouter) wrap(h http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.chain) {
		h = mw(h)
	}
	return h
}

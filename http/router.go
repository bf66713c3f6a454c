package http

import (
	"errors"
	"slices"
)

var ErrRouteNotFound = errors.New("http: route not found")

// TimerLabel is the label the router's timing marks are logged under.
const TimerLabel = "middleware"

type Options struct {
	Routes     []Route
	Middleware []Middleware

	// Timer brackets the middleware chain with Time/TimeEnd calls on the
	// request logger.
	Timer bool
}

// Router keeps the route table and the middleware chain. Both only grow and
// are expected to be filled before the router starts serving; they are not
// guarded for concurrent registration.
type Router struct {
	routes     []Route
	middleware []Middleware
	timer      bool
}

func NewRouter(opts Options) *Router {
	return &Router{
		routes:     slices.Clone(opts.Routes),
		middleware: slices.Clone(opts.Middleware),
		timer:      opts.Timer,
	}
}

// AddRoute registers handler for method and path. Paths are not validated and
// duplicates are kept; the first registration wins on lookup.
func (router *Router) AddRoute(method Method, path string, handler Handler) {
	router.routes = append(router.routes, Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
}

// AddMiddleware appends middleware to the chain.
func (router *Router) AddMiddleware(middleware Middleware) {
	router.middleware = append(router.middleware, middleware)
}

// Use appends middleware to the chain in argument order.
func (router *Router) Use(middleware ...Middleware) {
	for _, m := range middleware {
		router.AddMiddleware(m)
	}
}

func (router *Router) Post(path string, handler Handler) {
	router.AddRoute(MethodPost, path, handler)
}

func (router *Router) Get(path string, handler Handler) {
	router.AddRoute(MethodGet, path, handler)
}

func (router *Router) Put(path string, handler Handler) {
	router.AddRoute(MethodPut, path, handler)
}

func (router *Router) Delete(path string, handler Handler) {
	router.AddRoute(MethodDelete, path, handler)
}

func (router *Router) Options(path string, handler Handler) {
	router.AddRoute(MethodOptions, path, handler)
}

func (router *Router) Head(path string, handler Handler) {
	router.AddRoute(MethodHead, path, handler)
}

func (router *Router) Patch(path string, handler Handler) {
	router.AddRoute(MethodPatch, path, handler)
}

// Routes returns a copy of the route table in registration order.
func (router *Router) Routes() []Route {
	return slices.Clone(router.routes)
}

// Middleware returns a copy of the middleware chain in registration order.
func (router *Router) Middleware() []Middleware {
	return slices.Clone(router.middleware)
}

// FindRoute returns the first registered route whose method and path equal
// the request's. The boolean is false when nothing matches.
func (router *Router) FindRoute(req *Request) (Route, bool) {
	for _, route := range router.routes {
		if route.Method == req.Method && route.Path == req.Path {
			return route, true
		}
	}

	return Route{}, false
}

// RunMiddleware runs the chain in registration order, one at a time. The first
// error is returned as is and the remaining middleware are skipped.
func (router *Router) RunMiddleware(req *Request, res *Response) error {
	if router.timer {
		logger := req.Logger()
		logger.Time(TimerLabel)
		defer logger.TimeEnd(TimerLabel)
	}

	for _, middleware := range router.middleware {
		if err := middleware(req, res); err != nil {
			return err
		}
	}

	return nil
}

// Dispatch resolves the route for req, runs the middleware chain and then the
// route's handler. ErrRouteNotFound is returned when no route matches; any
// other error comes unmodified from a middleware or the handler.
func (router *Router) Dispatch(req *Request, res *Response) error {
	route, found := router.FindRoute(req)
	if !found {
		return ErrRouteNotFound
	}

	if err := router.RunMiddleware(req, res); err != nil {
		return err
	}

	return route.Handler(req, res)
}

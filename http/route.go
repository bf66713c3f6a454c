package http

import "net/http"

// Handler produces the response for a matched route. It returns once its work
// is done; a non-nil error is handed to the server unmodified.
type Handler func(req *Request, res *Response) error

// Middleware runs before the matched handler for its side effects on the
// request or response. Returning an error stops the chain.
type Middleware func(req *Request, res *Response) error

type Route struct {
	Method  Method
	Path    string
	Handler Handler
}

var NotFoundHandler Handler = func(req *Request, res *Response) error {
	res.WithStatus(http.StatusNotFound).WithText("not found")
	return nil
}

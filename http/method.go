package http

import (
	"fmt"
	"net/http"
)

// Method is an HTTP request method a route can be registered for.
type Method string

const (
	MethodPost    Method = http.MethodPost
	MethodGet     Method = http.MethodGet
	MethodOptions Method = http.MethodOptions
	MethodDelete  Method = http.MethodDelete
	MethodPut     Method = http.MethodPut
	MethodHead    Method = http.MethodHead
	MethodPatch   Method = http.MethodPatch
)

// Methods returns every routable method.
func Methods() []Method {
	return []Method{
		MethodPost,
		MethodGet,
		MethodOptions,
		MethodDelete,
		MethodPut,
		MethodHead,
		MethodPatch,
	}
}

// ParseMethod converts a raw request method into a Method.
// Matching is case sensitive, as it is on the wire.
func ParseMethod(raw string) (Method, error) {
	method := Method(raw)
	if err := method.Validate(); err != nil {
		return "", err
	}

	return method, nil
}

func (method Method) Validate() error {
	switch method {
	case MethodPost, MethodGet, MethodOptions, MethodDelete, MethodPut, MethodHead, MethodPatch:
		return nil
	default:
		return fmt.Errorf("http: unsupported method %q", string(method))
	}
}

func (method Method) String() string {
	return string(method)
}

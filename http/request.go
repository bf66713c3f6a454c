package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/massimiliano76/lapi/logging"
)

const HeaderRequestID = "X-Request-Id"

var ErrNoCookie = errors.New("http: named cookie not present")

// Request wraps an inbound net/http request for the router. Method and Path
// are the values routes are matched against.
type Request struct {
	Method Method
	Path   string

	original *http.Request
	id       string
	logger   *logging.Logger
	values   map[string]any

	body     []byte
	bodyRead bool
}

// NewRequest wraps r. The request id is taken from the X-Request-Id header
// or generated, and the request logger is derived from logger with it.
// A nil logger falls back to slog.Default().
func NewRequest(r *http.Request, logger *logging.Logger) *Request {
	if logger == nil {
		logger = logging.NewLogger(slog.Default())
	}

	id := r.Header.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}

	return &Request{
		Method:   Method(r.Method),
		Path:     r.URL.Path,
		original: r,
		id:       id,
		logger:   logger.With("request_id", id).WithContext(r.Context()),
		values:   make(map[string]any),
	}
}

func (req *Request) ID() string {
	return req.id
}

func (req *Request) Context() context.Context {
	return req.original.Context()
}

func (req *Request) Logger() *logging.Logger {
	return req.logger
}

// Original returns the underlying net/http request.
func (req *Request) Original() *http.Request {
	return req.original
}

func (req *Request) Header() http.Header {
	return req.original.Header
}

func (req *Request) Query() url.Values {
	return req.original.URL.Query()
}

func (req *Request) Cookie(name string) (*http.Cookie, error) {
	cookie, err := req.original.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, ErrNoCookie
	}

	return cookie, err
}

// Body reads the complete request body once and returns the cached bytes on
// later calls.
func (req *Request) Body() ([]byte, error) {
	if req.bodyRead {
		return req.body, nil
	}

	if req.original.Body == nil {
		req.bodyRead = true
		return nil, nil
	}

	body, err := io.ReadAll(req.original.Body)
	if err != nil {
		return nil, err
	}

	req.body = body
	req.bodyRead = true
	return body, nil
}

// Set stores a request scoped value, typically from a middleware for later
// middleware and the handler.
func (req *Request) Set(key string, value any) {
	req.values[key] = value
}

func (req *Request) Get(key string) (any, bool) {
	value, found := req.values[key]
	return value, found
}

package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/massimiliano76/lapi/logging"
	"github.com/quic-go/quic-go/http3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrorHandler turns a failure returned from dispatch into a response.
type ErrorHandler func(req *Request, res *Response, err error)

type HTTP3Options struct {
	Addr     string
	CertFile string
	KeyFile  string
}

type ServerOptions struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// HTTP3 additionally serves the router over QUIC when set.
	HTTP3 *HTTP3Options
}

// Server is the dispatch loop around a Router: it wraps each request, asks
// the router to dispatch it, turns failures into responses and writes the
// buffered response.
type Server struct {
	Name            string
	Router          *Router
	NotFoundHandler Handler
	ErrorHandler    ErrorHandler

	logger *logging.Logger
	http   *http.Server
	http3  *http3.Server
	opts   ServerOptions

	mu      sync.Mutex
	closing bool
}

func NewServer(name string, router *Router, logger *slog.Logger, opts ServerOptions) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		Name:            name,
		Router:          router,
		NotFoundHandler: NotFoundHandler,
		ErrorHandler:    DefaultErrorHandler,
		logger:          logging.NewLogger(logger.With("server", name)),
		opts:            opts,
	}

	s.http = &http.Server{
		Addr:           opts.Addr,
		Handler:        s.Handler(),
		ReadTimeout:    opts.ReadTimeout,
		WriteTimeout:   opts.WriteTimeout,
		IdleTimeout:    opts.IdleTimeout,
		MaxHeaderBytes: opts.MaxHeaderBytes,
	}

	if opts.HTTP3 != nil {
		s.http3 = &http3.Server{
			Addr:           opts.HTTP3.Addr,
			Handler:        s.Handler(),
			MaxHeaderBytes: opts.MaxHeaderBytes,
		}
	}

	return s
}

// Handler returns the server as an http.Handler instrumented with
// OpenTelemetry spans and metrics.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s, s.Name)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := NewRequest(r, s.logger)
	res := NewResponse()

	s.dispatch(req, res)

	res.Header().Set(HeaderRequestID, req.ID())
	if s.http3 != nil {
		if err := s.http3.SetQUICHeaders(res.Header()); err != nil {
			req.Logger().Warn("setting alt-svc header failed", "error", err)
		}
	}

	if err := res.Flush(w, req.Method == MethodHead); err != nil {
		req.Logger().Error("writing response failed", "error", err)
	}
}

func (s *Server) dispatch(req *Request, res *Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("http: panic serving %s %s: %v", req.Method, req.Path, recovered)
			res.Reset()
			s.ErrorHandler(req, res, err)
		}
	}()

	err := s.Router.Dispatch(req, res)
	if err == nil {
		return
	}

	res.Reset()
	if errors.Is(err, ErrRouteNotFound) {
		if err := s.NotFoundHandler(req, res); err != nil {
			s.ErrorHandler(req, res, err)
		}
		return
	}

	s.ErrorHandler(req, res, err)
}

// DefaultErrorHandler answers with the status of an *Error in the chain, or
// 500 for anything else. Server errors are logged.
func DefaultErrorHandler(req *Request, res *Response, err error) {
	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var httpErr *Error
	if errors.As(err, &httpErr) {
		status = httpErr.Status
		message = httpErr.Message
	}

	if status >= http.StatusInternalServerError {
		req.Logger().Error("request failed", "method", req.Method, "path", req.Path, "error", err)
	} else {
		req.Logger().Debug("request rejected", "method", req.Method, "path", req.Path, "status", status, "error", err)
	}

	res.WithStatus(status).WithText(message)
}

// ListenAndServe listens on the configured address, and on the HTTP/3
// address when enabled, and serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}

	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	errCh := make(chan error, 2)

	if s.http3 != nil {
		go func() {
			s.logger.Info("listening", "protocol", "HTTP/3", "addr", s.opts.HTTP3.Addr)
			errCh <- s.filterClosed(s.http3.ListenAndServeTLS(s.opts.HTTP3.CertFile, s.opts.HTTP3.KeyFile))
		}()
	}

	running := 1
	if s.http3 != nil {
		running++
	}

	go func() {
		s.logger.Info("listening", "protocol", "HTTP/1.1", "addr", listener.Addr().String())
		errCh <- s.filterClosed(s.http.Serve(listener))
	}()

	err := <-errCh
	if err == nil {
		return nil
	}

	// One listener failed; stop the other before reporting.
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	if s.http3 != nil {
		_ = s.http3.Close()
	}
	_ = s.http.Close()

	for running--; running > 0; running-- {
		<-errCh
	}

	return err
}

func (s *Server) filterClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return nil
	}

	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	var errs []error
	if s.http3 != nil {
		errs = append(errs, s.http3.Close())
	}
	errs = append(errs, s.http.Shutdown(ctx))

	return errors.Join(errs...)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/sift"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout bounds graceful shutdown of the server.
const ShutdownTimeout = 10 * time.Second

// Server exposes a sift.SearchService as a JSON API.
type Server struct {
	router  chi.Router
	server  *http.Server
	ln      net.Listener
	service sift.SearchService
	metrics http.Handler
	logger  *slog.Logger

	// Addr is the bind address, e.g. ":8080". Set before calling Open.
	Addr string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new Server backed by service.
func NewServer(service sift.SearchService, opts ...ServerOption) *Server {
	s := &Server{
		service: service,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/search", s.handleSearch)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open binds Addr and starts serving in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if query == "" {
		s.writeError(w, r, sift.Errorf(sift.EINVALID, "query parameter q is required"))
		return
	}

	var opts sift.SearchOptions
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.writeError(w, r, sift.Errorf(sift.EINVALID, "invalid limit: %v", err))
		return
	}
	timeoutMS, err := intParam(q.Get("timeout"))
	if err != nil {
		s.writeError(w, r, sift.Errorf(sift.EINVALID, "invalid timeout: %v", err))
		return
	}
	opts.Timeout = time.Duration(timeoutMS) * time.Millisecond
	if opts.MaxTokens, err = intParam(q.Get("max_tokens")); err != nil {
		s.writeError(w, r, sift.Errorf(sift.EINVALID, "invalid max_tokens: %v", err))
		return
	}

	resp := s.service.Search(r.Context(), query, opts)
	writeJSON(w, http.StatusOK, resp)
}

// intParam parses an optional non-negative integer query parameter.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	sift.EINVALID:      http.StatusBadRequest,
	sift.ENOTFOUND:     http.StatusNotFound,
	sift.EUNAUTHORIZED: http.StatusUnauthorized,
	sift.EUNAVAILABLE:  http.StatusServiceUnavailable,
	sift.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := sift.ErrorCode(err), sift.ErrorMessage(err)
	if code == sift.EINTERNAL {
		s.logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/pydemo/internal/binding"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/format"
	"github.com/agbru/pydemo/internal/logging"
	"github.com/agbru/pydemo/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server's runtime parameters.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// Timeout bounds the handling of a single request; zero disables it.
	Timeout time.Duration
	// BatchConcurrency bounds concurrent calls within one batch request.
	BatchConcurrency int
	// Security holds headers, CORS and size limits.
	Security SecurityConfig
}

// Server serves one module over HTTP.
type Server struct {
	invoker Invoker
	config  Config
	logger  logging.Logger
	metrics *Metrics
	memory  *metrics.MemoryCollector
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics shares a Metrics instance, typically one whose registry also
// carries the module's invocation collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server for inv.
func NewServer(inv Invoker, config Config, opts ...Option) *Server {
	if config.BatchConcurrency <= 0 {
		config.BatchConcurrency = 1
	}
	s := &Server{
		invoker: inv,
		config:  config,
		logger:  logging.NewDefaultLogger(),
		memory:  metrics.NewMemoryCollector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Handler returns the server's routes wrapped in the security and metrics
// middleware.
func (s *Server) Handler() http.Handler {
	base := "/v1/modules/" + s.invoker.Name()
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base, s.handleDescribe)
	mux.HandleFunc("POST "+base+"/{function}", s.handleCall)
	mux.HandleFunc("POST "+base+":batch", s.handleBatch)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)

	return SecurityMiddleware(s.config.Security, s.metricsMiddleware(mux.ServeHTTP))
}

// Run listens on the configured address and serves until ctx is canceled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return apperrors.WrapError(err, "listen on %s", s.config.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			logging.String("addr", ln.Addr().String()),
			logging.String("module", s.invoker.Name()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

type callRequest struct {
	Args []any `json:"args"`
}

type callResponse struct {
	Result any `json:"result"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type batchCall struct {
	Function string `json:"function"`
	Args     []any  `json:"args"`
}

type batchRequest struct {
	Calls []batchCall `json:"calls"`
}

type batchResult struct {
	Function string `json:"function"`
	Result   any    `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

type describeResponse struct {
	Module    string              `json:"module"`
	Functions []binding.Signature `json:"functions"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Module    string                 `json:"module"`
	Functions int                    `json:"functions"`
	Memory    metrics.MemorySnapshot `json:"memory"`
}

func (s *Server) handleDescribe(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, describeResponse{
		Module:    s.invoker.Name(),
		Functions: s.invoker.Signatures(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Module:    s.invoker.Name(),
		Functions: len(s.invoker.Signatures()),
		Memory:    s.memory.Snapshot(),
	})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	function := r.PathValue("function")

	var req callRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()

	result, err := s.invoker.Call(ctx, function, req.Args...)
	if err != nil {
		status, kind := statusFor(err)
		s.logger.Debug("call failed",
			logging.String("function", function),
			logging.String("kind", kind),
			logging.Err(err))
		s.writeError(w, status, kind, messageOf(err))
		return
	}
	s.writeJSON(w, http.StatusOK, callResponse{Result: format.JSONValue(result)})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}
	if limit := s.config.Security.MaxBatchCalls; limit > 0 && len(req.Calls) > limit {
		s.writeError(w, http.StatusBadRequest, "BadRequest",
			fmt.Sprintf("batch holds %d calls, at most %d allowed", len(req.Calls), limit))
		return
	}

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()

	results := make([]batchResult, len(req.Calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BatchConcurrency)
	for i, call := range req.Calls {
		g.Go(func() error {
			res := batchResult{Function: call.Function}
			result, err := s.invoker.Call(gctx, call.Function, call.Args...)
			if err != nil {
				_, res.Error = statusFor(err)
				res.Message = messageOf(err)
			} else {
				res.Result = format.JSONValue(result)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.writeError(w, http.StatusGatewayTimeout, "TimeoutError", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (s *Server) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.Timeout > 0 {
		return context.WithTimeout(ctx, s.config.Timeout)
	}
	return context.WithCancel(ctx)
}

// decode reads a JSON body. Numbers decode as json.Number so integers above
// 2^53 keep their exact value.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := r.Body
	if s.config.Security.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.Security.MaxBodyBytes)
	}
	dec := json.NewDecoder(body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps a call error to an HTTP status and the error kind reported
// to the client.
func statusFor(err error) (int, string) {
	if apperrors.IsContextError(err) {
		return http.StatusGatewayTimeout, "TimeoutError"
	}
	switch kind := binding.KindOf(err); kind {
	case apperrors.KindName:
		return http.StatusNotFound, string(kind)
	case apperrors.KindRuntime:
		return http.StatusInternalServerError, string(kind)
	default:
		return http.StatusBadRequest, string(kind)
	}
}

func messageOf(err error) string {
	var invErr *apperrors.InvocationError
	if errors.As(err, &invErr) {
		return invErr.Error()
	}
	return err.Error()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

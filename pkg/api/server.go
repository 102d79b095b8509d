package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KeenIsHere/reactecom/pkg/httputil"
	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// ServerConfig holds the HTTP server settings the API layer needs.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// Server is the public API server: authentication endpoints plus the
// token-gated catalog endpoints, wrapped in the shared middleware chain.
type Server struct {
	router *mux.Router
	server *http.Server
	logger *observability.Logger
}

// NewServer assembles the router and middleware chain. metrics may be
// nil to run without instrumentation.
func NewServer(cfg ServerConfig, authHandlers *AuthHandlers, catalogHandlers *CatalogHandlers, logger *observability.Logger, metrics *observability.Metrics) *Server {
	router := mux.NewRouter()
	// Mounted on the router, not the outer chain, so the metrics path
	// label resolves to the mux route template.
	if metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(metrics))
	}
	authHandlers.RegisterRoutes(router)
	catalogHandlers.RegisterRoutes(router)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteFailure(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteFailure(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handler := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.CORSMiddleware(cfg.AllowedOrigins),
		httputil.MaxBytesMiddleware(cfg.MaxBodyBytes),
	)(router)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

// Handler returns the fully wrapped handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}

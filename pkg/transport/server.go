package transport

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quillhq/quill/pkg/auth"
	"github.com/quillhq/quill/pkg/llm"
	"github.com/quillhq/quill/pkg/observability"
	"github.com/quillhq/quill/pkg/storage"
)

// Server wraps an http.Server around the API handler and manages the
// full lifecycle including startup and graceful shutdown.
type Server struct {
	httpServer *http.Server
	config     ServerConfig
	logger     *slog.Logger
}

// ServerConfig holds configuration for the transport server.
type ServerConfig struct {
	Addr            string
	MaxBodySize     int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	MetricsPath     string
	Logger          *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		MaxBodySize:     1 << 20, // 1 MB
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    150 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MetricsEnabled:  true,
		MetricsPath:     "/metrics",
		Logger:          slog.Default(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.config.Addr = addr }
}

// WithMaxBodySize sets the maximum request body size.
func WithMaxBodySize(n int64) ServerOption {
	return func(s *Server) { s.config.MaxBodySize = n }
}

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.config.ReadTimeout = read
		s.config.WriteTimeout = write
	}
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.config.ShutdownTimeout = d }
}

// WithMetrics toggles the Prometheus endpoint and sets its path.
func WithMetrics(enabled bool, path string) ServerOption {
	return func(s *Server) {
		s.config.MetricsEnabled = enabled
		if path != "" {
			s.config.MetricsPath = path
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.config.Logger = l; s.logger = l }
}

// NewServer assembles the full handler stack: routes, then auth, then
// metrics, access log, request id, and panic recovery outermost.
func NewServer(store storage.Store, tokens *auth.Tokens, llmClient *llm.Client, searcher Searcher, crawler Fetcher, opts ...ServerOption) *Server {
	s := &Server{
		config: DefaultServerConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	h := &Handler{
		store:       store,
		llm:         llmClient,
		searcher:    searcher,
		crawler:     crawler,
		tokens:      tokens,
		maxBodySize: s.config.MaxBodySize,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/auth/me", h.handleMe)

	mux.HandleFunc("POST /api/documents", h.handleCreateDocument)
	mux.HandleFunc("GET /api/documents", h.handleListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", h.handleGetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", h.handleUpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.handleDeleteDocument)
	mux.HandleFunc("GET /api/documents/{id}/render", h.handleRenderDocument)

	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("GET /api/chat/history/{session_id}", h.handleChatHistory)

	mux.HandleFunc("POST /api/agent", h.handleAgent)

	if s.config.MetricsEnabled {
		mux.Handle("GET "+s.config.MetricsPath, promhttp.Handler())
	}

	// Register and login are the only API endpoints reachable without a
	// token; everything else under /api requires one.
	bypass := append([]string{}, auth.DefaultBypassEndpoints...)
	bypass = append(bypass, "/api/auth/register", "/api/auth/login")
	if s.config.MetricsEnabled {
		bypass = append(bypass, s.config.MetricsPath)
	}

	var handler http.Handler = mux
	handler = auth.Middleware(tokens, store, bypass)(handler)
	handler = CORSMiddleware(handler)
	handler = observability.MetricsMiddleware(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s
}

// Handler returns the assembled http.Handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server and blocks until a shutdown signal
// (SIGINT or SIGTERM) is received. It then gracefully shuts down,
// waiting for in-flight requests to complete within the configured timeout.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.listenAndServeWithContext(ctx)
}

func (s *Server) listenAndServeWithContext(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", slog.String("addr", s.config.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	return s.shutdown()
}

// ServeOn starts the server on the given listener. Used for testing.
func (s *Server) ServeOn(ln net.Listener) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.config.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Shutdown gracefully shuts down the server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

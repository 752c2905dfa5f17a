package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server represents an HTTP server for metrics and health endpoints.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	ctx    context.Context
	cancel context.CancelFunc

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewHandler builds the routes served in watch mode. Metrics are exposed
// only when gatherer is not nil; readiness follows ready.
func NewHandler(gatherer prometheus.Gatherer, ready func() bool) http.Handler {
	mux := http.NewServeMux()

	// Register metrics endpoint if enabled (must be before /)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("/health", HealthHandler)
	mux.HandleFunc("/health/live", HealthHandler)
	mux.HandleFunc("/health/ready", ReadyHandler(ready))

	// Register build info endpoint (must be last as it matches all paths)
	mux.HandleFunc("/", BuildInfoHandler)

	return mux
}

// NewServer creates a new Server listening on addr.
func NewServer(ctx context.Context, addr string, handler http.Handler) (*Server, error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	serverCtx, cancel := context.WithCancel(ctx)

	log.Info().
		Str("addr", ln.Addr().String()).
		Msg("Starting metrics and health HTTP server")

	return &Server{
		srv:    srv,
		ln:     ln,
		ctx:    serverCtx,
		cancel: cancel,
	}, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Start starts the HTTP server in a separate goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("Metrics/health HTTP server stopped with error")
		}
	}()

	go func() {
		<-s.ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to shutdown metrics/health HTTP server")
		}
	}()
}

// Shutdown gracefully shuts down the HTTP server. Only the first call
// does any work; later calls return its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.cancel()
		if s.srv != nil {
			s.shutdownErr = s.srv.Shutdown(ctx)
		}
	})
	return s.shutdownErr
}

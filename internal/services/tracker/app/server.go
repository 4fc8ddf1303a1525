// Package server wires the tracker runtime and HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/tracker/internal/platform/timeouts"
	"github.com/louisbranch/tracker/internal/services/tracker/items"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/flash"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/httpx"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/observability"
	"github.com/louisbranch/tracker/internal/services/tracker/platform/requestmeta"
	"github.com/louisbranch/tracker/internal/services/tracker/storage"
	trackersqlite "github.com/louisbranch/tracker/internal/services/tracker/storage/sqlite"
)

// DevSecretKey is the fallback flash signing secret for local development.
const DevSecretKey = "dev-secret-key-change-me"

// Config defines startup inputs for the tracker server.
type Config struct {
	Addr                string
	DBPath              string
	SecretKey           string
	Debug               bool
	TrustForwardedProto bool
	Logger              *log.Logger
}

// HandlerConfig defines the collaborators of the root handler.
type HandlerConfig struct {
	Store               storage.ItemStore
	Health              Pinger
	SecretKey           string
	Debug               bool
	TrustForwardedProto bool
	Logger              *log.Logger
}

// Pinger reports storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server hosts the tracker HTTP surface and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *trackersqlite.Store
	logger     *log.Logger
}

// NewHandler builds the root handler with the shared middleware chain.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	codec, err := flash.NewCodec(cfg.SecretKey, requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto})
	if err != nil {
		return nil, fmt.Errorf("build flash codec: %w", err)
	}
	itemsModule := items.New(items.Config{
		Store:   cfg.Store,
		Flash:   codec,
		Logger:  logger,
		Verbose: cfg.Debug,
	})

	rootMux := http.NewServeMux()
	rootMux.Handle(http.MethodGet+" /healthz", healthHandler(cfg.Health, logger))
	rootMux.Handle("/", itemsModule.Handler())
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(),
		observability.RequestLoggerWithOptions(logger, observability.Options{Verbose: cfg.Debug}),
	), nil
}

func healthHandler(pinger Pinger, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if pinger == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable\n"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.HealthCheck)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logger.Printf("health check failed request_id=%s err=%v", httpx.RequestIDFromRequest(r), err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})
}

// New validates config, opens storage, and binds the listener. The schema is
// in place before the listener accepts connections.
func New(ctx context.Context, cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	secret := cfg.SecretKey
	if strings.TrimSpace(secret) == "" {
		secret = DevSecretKey
	}
	if secret == DevSecretKey {
		logger.Printf("warning: SECRET_KEY is not set; flash cookies use the development secret")
	}

	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	handler, err := NewHandler(HandlerConfig{
		Store:               store,
		Health:              store,
		SecretKey:           secret,
		Debug:               cfg.Debug,
		TrustForwardedProto: cfg.TrustForwardedProto,
		Logger:              logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("compose tracker handler: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			IdleTimeout:       timeouts.Idle,
			ErrorLog:          logger,
		},
		store:  store,
		logger: logger,
	}, nil
}

// Run creates and serves a tracker server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve serves HTTP traffic until context cancellation, then drains
// in-flight requests and releases storage.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	s.logger.Printf("tracker server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown tracker http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve tracker http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Printf("close tracker store: %v", err)
		}
		s.store = nil
	}
}

func openStore(ctx context.Context, path string) (*trackersqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := trackersqlite.OpenContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open tracker sqlite store: %w", err)
	}
	return store, nil
}

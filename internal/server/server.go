package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"notes-server/internal/notes"
)

type Config struct {
	Addr      string // e.g. ":3000"
	PublicDir string // static assets served at every non-API path

	// EnableClear registers DELETE /api/notes.
	EnableClear bool

	// RateLimitPerMinute caps requests per client IP; 0 disables the limiter.
	RateLimitPerMinute int

	// TrustProxyHeaders makes the limiter key clients by X-Forwarded-For /
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxyHeaders bool

	Version string

	// Stdout receives the startup banner; defaults to os.Stdout.
	Stdout io.Writer
}

type Server struct {
	httpServer *http.Server
	store      *notes.Store
	metrics    *Metrics
	limiter    *rateLimiter
	cfg        Config
	version    string
	startedAt  time.Time
	ready      atomic.Bool
}

// New builds a Server around store. Nothing listens until Start.
func New(cfg Config, store *notes.Store) *Server {
	if store == nil {
		panic("server.New: store is nil")
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{
		store:     store,
		metrics:   NewMetrics(),
		cfg:       cfg,
		version:   cfg.Version,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()

	// Note API
	mux.HandleFunc("GET /api/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/notes", s.handleCreateNote)
	if cfg.EnableClear {
		mux.HandleFunc("DELETE /api/notes", s.handleClearNotes)
	}

	// Operational endpoints
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /live", s.HandleLive)
	mux.HandleFunc("GET /ready", s.HandleReady)
	mux.Handle("GET /metrics", s.PrometheusHandler())

	// Everything else is a static asset
	mux.Handle("/", staticHandler(cfg.PublicDir))

	// Wrap middleware: requestID -> logging -> security headers -> rate limit -> compression -> mux
	var handler http.Handler = mux
	handler = compressionMiddleware(handler)
	if cfg.RateLimitPerMinute > 0 {
		s.limiter = newRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		s.limiter.trustProxy = cfg.TrustProxyHeaders
		handler = s.limiter.middleware(handler)
	}
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(s.metrics, handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the fully wrapped handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address, prints the startup banner and
// serves until Shutdown. It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.ready.Store(true)

	port := ""
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		port = fmt.Sprint(tcp.Port)
	}
	fmt.Fprintf(s.cfg.Stdout, "Notes server running at http://localhost:%s\n", port)
	Info("listening", map[string]any{
		"addr":       ln.Addr().String(),
		"public_dir": s.cfg.PublicDir,
		"clear":      s.cfg.EnableClear,
		"timestamps": s.store.Timestamps(),
	})

	return s.httpServer.Serve(ln)
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	if s.limiter != nil {
		s.limiter.stop()
	}
	return s.httpServer.Shutdown(ctx)
}

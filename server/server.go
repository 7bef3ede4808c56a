package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/usermodel/logger"
	"github.com/kbukum/usermodel/metrics"
	"github.com/kbukum/usermodel/observability"
	"github.com/kbukum/usermodel/server/endpoint"
	"github.com/kbukum/usermodel/server/middleware"
)

// Server is the HTTP server. Gin owns every route; extra http.Handlers
// (such as the Prometheus exporter) can be mounted beside it on the root mux.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	listener   net.Listener
	config     Config
	log        *logger.Logger
}

// New creates a new Server. No middleware is applied yet; call
// ApplyMiddleware after the error boundary is known.
func New(cfg Config, log *logger.Logger, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// Unmatched methods on known paths go to NoMethod (405) instead of NoRoute.
	engine.HandleMethodNotAllowed = true

	mux := http.NewServeMux()
	mux.Handle("/", engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(mux, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		mux:        mux,
		config:     cfg,
		log:        log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the root handler (h2c-wrapped mux), for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Handle mounts an http.Handler at the given pattern on the root ServeMux.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// Middleware bundles the collaborators of the standard middleware stack.
// Nil fields disable the corresponding middleware.
type Middleware struct {
	// OnPanic renders a recovered panic; nil answers a bare 500.
	OnPanic middleware.PanicRenderer
	// Boundary is the error boundary; it runs inside recovery so that
	// handler panics and handler errors are rendered the same way.
	Boundary gin.HandlerFunc
	Metrics  *metrics.Collector
	Tracing  bool
}

// ApplyMiddleware installs, outermost first: request ID, tracing, request
// logging, metrics, recovery, CORS, body-size limit, then the error boundary.
// Recovery sits inside the observers so a recovered panic is logged, traced
// and counted with the status it was rendered with.
func (s *Server) ApplyMiddleware(m Middleware) {
	s.engine.Use(middleware.RequestID())
	if m.Tracing {
		s.engine.Use(middleware.Tracing())
	}
	s.engine.Use(middleware.RequestLogger(s.log))
	if m.Metrics != nil {
		s.engine.Use(middleware.Metrics(m.Metrics))
	}
	s.engine.Use(middleware.Recovery(s.log, m.OnPanic))
	s.engine.Use(middleware.CORS(&s.config.CORS))
	s.engine.Use(middleware.BodySizeLimit(ParseSize(s.config.MaxBodySize, defaultMaxBodySize)))
	if m.Boundary != nil {
		s.engine.Use(m.Boundary)
	}
}

// RegisterDefaultEndpoints registers /health and /info.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checkers ...observability.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checkers...))
	s.engine.GET("/info", endpoint.Info(serviceName))
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", logger.Fields("addr", s.httpServer.Addr))

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	tlsConfig, err := s.config.TLS.Build()
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("server tls: %w", err)
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
		s.log.Info("TLS enabled", logger.Fields("mutual", tlsConfig.ClientAuth == tls.RequireAndVerifyClientCert))
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve failed", err))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown failed", err))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/usermodel/envelope"
	"github.com/kbukum/usermodel/handler"
	"github.com/kbukum/usermodel/logger"
	"github.com/kbukum/usermodel/metrics"
	"github.com/kbukum/usermodel/observability"
	"github.com/kbukum/usermodel/server"
	"github.com/kbukum/usermodel/store"
	"github.com/kbukum/usermodel/user"
	"github.com/kbukum/usermodel/version"
)

// App owns the wired service and its lifecycle.
type App struct {
	Name    string
	Version string
	Cfg     *Config
	Logger  *logger.Logger

	Server   *server.Server
	Builder  *envelope.Builder
	Boundary *handler.Boundary
	Metrics  *metrics.Collector
	Users    *user.Service
	DB       *store.DB

	tracer          *sdktrace.TracerProvider
	gracefulTimeout time.Duration
	now             func() time.Time
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies defaults, validates cfg and initializes the logger.
// Components are wired by Configure.
func NewApp(cfg *Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	ver := cfg.Version
	if ver == "" {
		ver = version.Short()
	}

	app := &App{
		Name:            cfg.Name,
		Version:         ver,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		logger.Init(&cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// Configure wires telemetry, the error boundary, the HTTP server, the user
// store and the user routes. It does not bind the port.
func (a *App) Configure(ctx context.Context) error {
	cfg := a.Cfg

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing, a.Name, a.Version, cfg.Environment)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		a.tracer = tp
	}

	var boundaryOpts []handler.Option
	if cfg.Metrics.Enabled {
		collector, err := metrics.NewCollector(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
		a.Metrics = collector
		boundaryOpts = append(boundaryOpts, handler.WithMetrics(collector))
	}

	a.Builder = envelope.NewBuilder(
		envelope.WithClock(a.now),
		envelope.WithMaxCauseDepth(cfg.Envelope.MaxCauseDepth),
	)
	a.Boundary = handler.New(a.Builder, a.Logger, boundaryOpts...)

	a.Server = server.New(cfg.Server, a.Logger, cfg.Debug)
	a.Server.ApplyMiddleware(server.Middleware{
		OnPanic:  a.Boundary.Render,
		Boundary: a.Boundary.Middleware(),
		Metrics:  a.Metrics,
		Tracing:  cfg.Tracing.Enabled,
	})

	engine := a.Server.GinEngine()
	engine.NoRoute(a.Boundary.NoRoute())
	engine.NoMethod(a.Boundary.NoMethod())

	repo, checker, err := a.userRepository(ctx)
	if err != nil {
		return err
	}
	a.Users = user.NewService(repo, a.Logger,
		user.WithNotFoundPrefix(cfg.Envelope.NotFoundPrefix),
		user.WithBcryptCost(cfg.Users.BcryptCost),
	)
	if cfg.Users.Seed {
		if err := a.Users.Seed(ctx); err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}
	}
	user.NewHandler(a.Users).Register(engine)

	a.Server.RegisterDefaultEndpoints(a.Name, checker)
	if a.Metrics != nil {
		a.Server.Handle(cfg.Metrics.Path, a.Metrics.Handler())
	}
	return nil
}

// userRepository opens the database when it is enabled and falls back to
// the in-memory repository otherwise. The returned checker reports the
// repository's health.
func (a *App) userRepository(ctx context.Context) (user.Repository, observability.HealthChecker, error) {
	if !a.Cfg.Database.Enabled {
		repo := user.NewMemoryRepository()
		return repo, repo, nil
	}

	db, err := store.Open(ctx, a.Cfg.Database, a.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	a.DB = db
	if a.Cfg.Database.AutoMigrate {
		if err := user.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrating users: %w", err)
		}
	}
	return user.NewGormRepository(db), db, nil
}

// Handler returns the root HTTP handler. Configure must have run.
func (a *App) Handler() http.Handler {
	return a.Server.Handler()
}

// Run configures the app, starts serving, blocks until a shutdown signal
// or ctx cancellation, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.Shutdown()
}

// Start runs Configure, the OnStart hooks and binds the server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"environment", a.Cfg.Environment,
	))

	if err := a.Configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	if err := a.runHooks(ctx, "start", a.onStart); err != nil {
		return a.abortStart(err)
	}
	if err := a.Server.Start(ctx); err != nil {
		return a.abortStart(fmt.Errorf("starting server: %w", err))
	}
	return nil
}

// abortStart releases what Configure acquired and returns err.
func (a *App) abortStart(err error) error {
	if shutdownErr := a.Shutdown(); shutdownErr != nil {
		a.Logger.Error("Cleanup after failed start", logger.ErrorFields("abort_start", shutdownErr))
	}
	return err
}

// WaitForSignal blocks until SIGINT/SIGTERM or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields(
			"signal", sig.String(),
		))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the server, runs OnStop hooks, closes the database and
// flushes traces within the graceful timeout. The first error is returned; later steps still run.
func (a *App) Shutdown() error {
	a.Logger.Info("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	keep := func(err error) {
		if err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	if a.Server != nil {
		keep(a.Server.Stop(ctx))
	}
	if err := a.runHooks(ctx, "stop", a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", err))
		keep(err)
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Database close error", logger.ErrorFields("db_close", err))
			keep(err)
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.Logger.Error("Tracer shutdown error", logger.ErrorFields("tracer_shutdown", err))
			keep(err)
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

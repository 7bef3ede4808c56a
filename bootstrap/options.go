package bootstrap

import (
	"time"

	"github.com/kbukum/usermodel/logger"
)

// Option overrides a default of the App before it is wired.
type Option func(*App)

// WithLogger replaces the logger built from cfg.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.Logger = l }
}

// WithGracefulTimeout bounds Shutdown. The default is 15s.
func WithGracefulTimeout(d time.Duration) Option {
	return func(a *App) { a.gracefulTimeout = d }
}

// WithClock sets the clock for envelope timestamps and user audit times.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

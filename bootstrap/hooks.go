package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/usermodel/logger"
)

// Hook is a named lifecycle callback.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// OnStart registers a hook that runs after wiring and before the server
// binds its port. A failing start hook aborts Start.
func (a *App) OnStart(name string, fn func(ctx context.Context) error) {
	a.onStart = append(a.onStart, Hook{Name: name, Fn: fn})
}

// OnStop registers a hook that runs during Shutdown once the server has
// stopped accepting requests. Stop hooks run in reverse registration order.
func (a *App) OnStop(name string, fn func(ctx context.Context) error) {
	a.onStop = append([]Hook{{Name: name, Fn: fn}}, a.onStop...)
}

// runHooks runs hooks in order and stops at the first failure.
func (a *App) runHooks(ctx context.Context, phase string, hooks []Hook) error {
	for _, h := range hooks {
		a.Logger.Debug("Running lifecycle hook", logger.Fields("phase", phase, "hook", h.Name))
		if err := h.Fn(ctx); err != nil {
			return fmt.Errorf("%s hook %q: %w", phase, h.Name, err)
		}
	}
	return nil
}

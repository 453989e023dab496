// Package bootstrap coordinates startup and graceful shutdown of the
// long-running binaries.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownTimeout bounds how long teardown hooks may run after an
// interrupt before the process gives up on them.
const ShutdownTimeout = 10 * time.Second

// App runs a blocking serve function and tears registered resources
// down in reverse order once the process is interrupted.
type App struct {
	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

func New() *App {
	return &App{}
}

// OnShutdown registers a teardown function. Hooks run in LIFO order so
// resources close in reverse of how they were opened. Thread-safe.
func (a *App) OnShutdown(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run executes serve until it fails or the process receives SIGINT or
// SIGTERM, then runs the teardown hooks under ShutdownTimeout. A serve
// error that arrives before any signal is returned as-is.
func (a *App) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := serve(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Default().Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancelShutdown()
		return a.teardown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) teardown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

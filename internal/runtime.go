package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golddranks/sharp-pencil/pkg/logger"
)

// runtimeConfig holds everything runServer needs.
type runtimeConfig struct {
	handler       http.Handler
	address       string
	server        Config
	logger        *slog.Logger
	shutdownHooks []func(context.Context) error
	baseCtx       context.Context
}

// runServer starts the HTTP server and blocks until shutdown. Timeouts
// around whole requests are enforced here, outside the dispatch core.
func runServer(cfg runtimeConfig) error {
	log := cfg.logger
	if log == nil {
		log = logger.NewNope()
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       cfg.server.ReadTimeout,
		WriteTimeout:      cfg.server.WriteTimeout,
		IdleTimeout:       cfg.server.IdleTimeout,
		ReadHeaderTimeout: cfg.server.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.server.MaxHeaderBytes,
	}

	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Listen first so the bound address is known before serving.
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.server.ShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}

// RunOption configures the server runtime.
type RunOption func(*runConfig)

type runConfig struct {
	logger        *slog.Logger
	shutdownHooks []func(context.Context) error
	baseCtx       context.Context
}

func buildRunConfig(opts ...RunOption) runConfig {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Logger sets the runtime logger. Defaults to the application logger.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = l
	}
}

// ShutdownHook registers a cleanup function to run during shutdown, in
// registration order, each with the shutdown timeout.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		c.shutdownHooks = append(c.shutdownHooks, fn)
	}
}

// WithContext sets a custom base context for signal handling. Useful in
// tests or when integrating with an existing context hierarchy.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		c.baseCtx = ctx
	}
}

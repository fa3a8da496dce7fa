package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/pkg/config"
	xhttp "github.com/Rono40230/Analyses-historiques/pkg/http"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	loader      drepo.CandleLoader
	events      drepo.EventSource
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	closers     []func() error
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	loader drepo.CandleLoader,
	events drepo.EventSource,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		loader:      loader,
		events:      events,
		httpHandler: handler,
	}
}

// AddCloser registers extra infrastructure to close on shutdown.
func (a *App) AddCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.loader.Init(ctx); err != nil {
		a.log.Error("candle store init error", applogger.Error(err))
		return err
	}
	if err := a.events.Init(ctx); err != nil {
		a.log.Error("event store init error", applogger.Error(err))
		return err
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(a.cfg.Server.CORS),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("analysis server started",
		applogger.String("host", a.cfg.Server.Host),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("backend", a.cfg.Database.Type),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.events.Close(); err != nil {
		a.log.Warn("event store close error", applogger.Error(err))
	}
	if err := a.loader.Close(); err != nil {
		a.log.Warn("candle store close error", applogger.Error(err))
	}
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			a.log.Warn("closer error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

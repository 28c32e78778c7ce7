package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-workspace-dashboard/internal/config"
	"go-workspace-dashboard/internal/event"
	"go-workspace-dashboard/internal/gateway"
	"go-workspace-dashboard/internal/handler"
	"go-workspace-dashboard/internal/router"
	"go-workspace-dashboard/internal/service"
	"go-workspace-dashboard/internal/sqlite"
	"go-workspace-dashboard/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	bus     *event.InMemoryBus
	handler http.Handler
	server  *http.Server
}

// New wires every component from cfg. runner may be nil, in which case
// commands are executed on the host.
func New(cfg *config.Config, logger *slog.Logger, runner gateway.Runner, version string) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = gateway.NewExecRunner(logger.With("component", "runner"), cfg.CommandTimeout)
	}

	registry := workspace.NewRegistry(cfg)
	stores, err := service.NewStores(registry, cfg.ResolveSymlinks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workspaces: %w", err)
	}
	for _, ws := range registry.List() {
		logger.Info("workspace registered", "id", ws.ID, "path", ws.Path, "default", ws.ID == registry.Default().ID)
	}

	bus := event.NewBus()

	fileService := service.NewFileService(stores, cfg.AllowedExtensions, bus)
	searchService := service.NewSearchService(stores, cfg.AllowedExtensions, cfg.RequestTimeout)
	tables := sqlite.New(registry, cfg.MemoryDir, cfg.AllowedTables)

	processes := gateway.NewProcessGateway(runner, cfg.ServiceUser, cfg.CriticalProcesses, bus, logger)
	system := gateway.NewSystemGateway(runner, "", logger)
	jobs := gateway.NewJobGateway(runner, cfg.CLIBinary, bus, logger)
	logs := gateway.NewLogGateway(runner, cfg.CLIBinary, cfg.GatewayUnit, logger)

	appRouter := router.New(cfg, router.Handlers{
		Files:    handler.NewFileHandler(fileService, searchService),
		Database: handler.NewDatabaseHandler(tables),
		Cron:     handler.NewCronHandler(jobs),
		Process:  handler.NewProcessHandler(processes, system),
		Logs:     handler.NewLogsHandler(logs),
		Events:   handler.NewEventsHandler(bus),
		Health:   handler.NewHealthHandler(version),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{cfg: cfg, logger: logger, bus: bus, handler: appRouter, server: server}, nil
}

// Handler exposes the routed handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	go event.RunAuditLog(auditCtx, a.bus, a.logger.With("component", "audit"))

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", a.server.Addr, "metrics", a.cfg.MetricsEnabled)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

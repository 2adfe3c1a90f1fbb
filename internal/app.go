package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"treats/internal/controllers"
	"treats/internal/providers"
	"treats/internal/scheduler/interfaces"
	"treats/internal/services"
	"treats/internal/storage"
	storageInterfaces "treats/internal/storage/interfaces"
	"treats/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// watchSnapshot drops cached responses, reloads the revision and re-syncs
// standup timers whenever another process changes the snapshot file.
func watchSnapshot(ctx context.Context, conf *structures.Config, gateway storageInterfaces.GatewayInterface, workspace services.WorkspaceInterface, scheduler interfaces.SchedulerInterface, cache providers.CacheProviderInterface, logger providers.Logger) (*storage.Watcher, error) {
	if !conf.Persistence.Watch {
		return nil, nil
	}
	watcher, err := storage.NewSnapshotWatcher(gateway, logger, func() {
		cache.Clear()
		if err := workspace.Refresh(); err != nil {
			logger.Errorf(providers.TypeApp, "Reload after external change failed: %s", err)
			return
		}
		if err := scheduler.Restore(); err != nil {
			logger.Errorf(providers.TypeApp, "Standup re-arm after external change failed: %s", err)
		}
	})
	if err != nil || watcher == nil {
		return nil, err
	}
	watcher.Start(ctx)
	return watcher, nil
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, workspace services.WorkspaceInterface, gateway storageInterfaces.GatewayInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, cache providers.CacheProviderInterface) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with logging and metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, providers.LoggingMiddleware(logger, apiMux))

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		providers.RegisterWorkspaceGauges(conf, workspace)
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := workspace.Refresh(); err != nil {
		return nil, fmt.Errorf("unable to load workspace: %w", err)
	}
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	watcher, err := watchSnapshot(ctx, conf, gateway, workspace, scheduler, cache, logger)
	if err != nil {
		logger.Warnf(providers.TypeApp, "Snapshot watcher disabled: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()
	if watcher != nil {
		_ = watcher.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(shutdownCtx); err != nil {
		return nil, err
	}
	if err = scheduler.Persist(); err != nil {
		return nil, err
	}
	if err = gateway.Close(); err != nil {
		logger.Warnf(providers.TypeApp, "Closing persistence: %s", err)
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/api"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
	"github.com/tendant/simple-portfolio/pkg/portfolio/watch"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file loaded", "err", err)
	}

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(serverConfig.Environment))

	if err := run(serverConfig); err != nil {
		slog.Error("Server error", "err", err)
		os.Exit(1)
	}
}

func run(serverConfig *config.ServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := watch.NewHub(serverConfig.CORSAllowedOrigins)
	defer hub.Close()

	var sink portfolio.EventSink = hub
	var watcher *watch.Watcher
	if serverConfig.WatchDocument && serverConfig.StorageType == config.StorageFS {
		watcher = watch.NewWatcher(filepath.Join(serverConfig.Storage.BaseDir, serverConfig.DocumentKey), hub)
		sink = watcher
	}

	rt, err := serverConfig.BuildService(ctx, portfolio.WithEventSink(sink))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer rt.Close()

	if watcher != nil {
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("Document watcher stopped", "err", err)
			}
		}()
	}

	routerConfig := api.RouterConfig{
		Service:          rt.Service,
		AllowedOrigins:   serverConfig.CORSAllowedOrigins,
		ContactRateLimit: serverConfig.ContactRateLimit,
		LiveUpdates:      hub,
	}
	if serverConfig.AdminJWTSecret != "" {
		routerConfig.AdminAuth = api.NewAdminAuth(serverConfig.AdminJWTSecret)
	} else if serverConfig.IsProduction() {
		slog.Warn("ADMIN_JWT_SECRET is not set, write routes are unauthenticated")
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", serverConfig.Port),
		Handler:           api.NewRouter(routerConfig),
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Portfolio server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"storage", serverConfig.StorageType)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

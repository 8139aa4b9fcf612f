package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"movie-discovery-frontend/docs"
	"movie-discovery-frontend/internal/app"
	"movie-discovery-frontend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Setup(ctx, cfg, app.Options{Redis: true})
	if err != nil {
		slog.Error("failed to set up front end", "error", err)
		os.Exit(1)
	}

	// Restore the persisted session in the background; requests wait for it.
	go func() {
		if err := deps.Session.Initialize(ctx); err != nil {
			slog.Error("session restore failed", "error", err)
		}
	}()

	web := app.NewWebApp(deps, app.WebOptions{Swagger: docs.Swagger})

	go func() {
		addr := net.JoinHostPort(cfg.Host, cfg.Port)
		slog.Info("movie discovery web starting", "addr", addr, "api", cfg.API.BaseURL)
		if err := web.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down movie discovery web...")

	// Shutdown HTTP server first (stop accepting new requests)
	if err := web.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	slog.Info("HTTP server stopped")

	if err := deps.Close(); err != nil {
		slog.Error("error closing backing services", "error", err)
	}
	slog.Info("movie discovery web shutdown complete")
}

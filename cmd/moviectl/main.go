package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"movie-discovery-frontend/internal/app"
	"movie-discovery-frontend/internal/cli"
	"movie-discovery-frontend/internal/config"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	root := cli.NewRootCmd(load)
	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("moviectl version %s\n", version))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func load(ctx context.Context) (*cli.Runtime, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// logs go to stderr so --output json stays parseable
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: max(cfg.LogLevel, slog.LevelWarn)})))

	deps, err := app.Setup(ctx, cfg, app.Options{})
	if err != nil {
		return nil, nil, err
	}
	return &cli.Runtime{
		API:      deps.Client,
		Session:  deps.Session,
		PageSize: cfg.PageSize,
	}, deps.Close, nil
}

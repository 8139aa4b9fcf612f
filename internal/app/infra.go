// Package app wires configuration, backing services, the API client and the
// session together for the web and terminal front ends.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/config"
	"movie-discovery-frontend/internal/database"
	"movie-discovery-frontend/internal/session"
	"movie-discovery-frontend/internal/tokenstore"
)

// Deps is what both front ends are built from.
type Deps struct {
	Config  *config.Config
	Client  *apiclient.Client
	Store   tokenstore.Store
	Session *session.Session
	DB      *sql.DB
	Redis   *redis.Client
}

// Options tune Setup.
type Options struct {
	// Redis connects to Redis even when the token store does not need it.
	// Failing to connect is then only logged.
	Redis bool
}

// Setup connects the backing services the configuration asks for and builds
// an unresolved session. Call Session.Initialize afterwards.
func Setup(ctx context.Context, cfg *config.Config, opts Options) (*Deps, error) {
	d := &Deps{
		Config: cfg,
		Client: apiclient.NewClient(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout)),
	}

	switch cfg.Token.Store {
	case config.StoreRedis:
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("token store: %w", err)
		}
		d.Redis = rdb
		d.Store = tokenstore.NewRedisStore(rdb, cfg.Token.Key)
	case config.StorePostgres:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("token store: %w", err)
		}
		d.DB = db
		d.Store = tokenstore.NewPostgresStore(db, cfg.Token.Key)
	case config.StoreMemory:
		d.Store = tokenstore.NewMemoryStore("")
	default:
		d.Store = tokenstore.NewFileStore(cfg.Token.Dir, cfg.Token.Key)
	}

	if opts.Redis && d.Redis == nil {
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, running without login throttling", "error", err)
		} else {
			d.Redis = rdb
		}
	}

	d.Session = session.New(d.Store, d.Client)
	slog.Debug("front end wired", "api", cfg.API.BaseURL, "token_store", cfg.Token.Store)
	return d, nil
}

// Close releases the backing services.
func (d *Deps) Close() error {
	var errs []error
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Package cli implements moviectl, the terminal front end over the same
// views the web front end serves.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"movie-discovery-frontend/internal/session"
	"movie-discovery-frontend/internal/view"
)

// Runtime is what the commands act on.
type Runtime struct {
	API      view.API
	Session  *session.Session
	PageSize int
}

// Loader builds the runtime for one command invocation. The returned func
// releases it.
type Loader func(ctx context.Context) (*Runtime, func() error, error)

// NewRootCmd creates the moviectl command tree.
func NewRootCmd(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:   "moviectl",
		Short: "Browse, search and rate movies from the terminal",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("output", "o", formatText, "Output format: text | json")

	root.AddCommand(
		newLoginCmd(load),
		newLogoutCmd(load),
		newRegisterCmd(load),
		newWhoamiCmd(load),
		newHomeCmd(load),
		newShowCmd(load),
		newSearchCmd(load),
		newRecommendCmd(load),
		newRateCmd(load),
		newToggleCmd(load, "watchlist", "Add a movie to the watchlist, or remove it", (*view.Detail).ToggleWatchlist),
		newToggleCmd(load, "favorite", "Add a movie to the favorites, or remove it", (*view.Detail).ToggleFavorite),
		newProfileCmd(load),
		newRemoveCmd(load, "unfavorite", "Remove a movie from the favorites", (*view.Profile).RemoveFavorite),
		newRemoveCmd(load, "unwatch", "Remove a movie from the watchlist", (*view.Profile).RemoveFromWatchlist),
		newPasswdCmd(load),
	)
	return root
}

// run loads the runtime, restores the session and calls fn.
func run(cmd *cobra.Command, load Loader, fn func(ctx context.Context, rt *Runtime, p *printer) error) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, release, err := load(ctx)
	if err != nil {
		return exitError(exitFailure, "setup: %v", err)
	}
	defer func() {
		if err := release(); err != nil {
			slog.Warn("release failed", "error", err)
		}
	}()

	// a second Initialize on a shared runtime is harmless
	if err := rt.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrAlreadyInitialized) {
		return fmt.Errorf("restore session: %w", err)
	}
	return fn(ctx, rt, p)
}

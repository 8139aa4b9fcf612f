package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"movie-discovery-frontend/internal/view"
)

var profileTabs = map[string]int{
	"rated":     view.TabRated,
	"favorites": view.TabFavorites,
	"watchlist": view.TabWatchlist,
}

// loadProfile loads the signed-in user's profile or fails with a sign-in hint.
func loadProfile(ctx context.Context, rt *Runtime) (*view.Profile, error) {
	v := view.NewProfile(rt.API, rt.Session)
	v.Load(ctx)
	st := v.State()
	switch {
	case !st.SignedIn:
		v.Unmount()
		return nil, exitError(exitSignIn, "%s", st.Warning)
	case st.Error != "":
		v.Unmount()
		return nil, exitError(exitFailure, "%s", st.Error)
	}
	return v, nil
}

func newProfileCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your rated movies, favorites or watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tabName, _ := cmd.Flags().GetString("tab")
			tab, ok := profileTabs[tabName]
			if !ok {
				return exitError(exitUsage, "invalid --tab %q: want rated, favorites or watchlist", tabName)
			}
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				v, err := loadProfile(ctx, rt)
				if err != nil {
					return err
				}
				defer v.Unmount()
				v.SetTab(tab)

				st := v.State()
				return p.emit(st, func(w io.Writer) {
					fmt.Fprintf(w, "%s <%s>\n", st.User.Username, st.User.Email)
					fmt.Fprintf(w, "%d rated, %d favorites, %d in watchlist\n\n", len(st.Rated), len(st.Favorites), len(st.Watchlist))
					if msg := st.EmptyMessage(); msg != "" {
						fmt.Fprintln(w, msg)
						return
					}
					switch st.Tab {
					case view.TabFavorites:
						writeUserMovies(w, st.Favorites)
					case view.TabWatchlist:
						writeUserMovies(w, st.Watchlist)
					default:
						writeUserMovies(w, st.Rated)
					}
				})
			})
		},
	}
	cmd.Flags().String("tab", "rated", "List to show: rated | favorites | watchlist")
	return cmd
}

func newRemoveCmd(load Loader, name, short string, remove func(*view.Profile, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <movie-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				v, err := loadProfile(ctx, rt)
				if err != nil {
					return err
				}
				defer v.Unmount()
				if err := remove(v, ctx, args[0]); err != nil {
					if msg := v.State().Error; msg != "" {
						return exitError(exitFailure, "%s", msg)
					}
					return actionError(err)
				}
				st := v.State()
				return p.emit(st, func(w io.Writer) {
					fmt.Fprintf(w, "Removed %s\n", args[0])
				})
			})
		},
	}
}

func newPasswdCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, _ := cmd.Flags().GetString("current")
			next, _ := cmd.Flags().GetString("new")
			confirm, _ := cmd.Flags().GetString("confirm")
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				if !rt.Session.IsAuthenticated() {
					return actionError(view.ErrSignInRequired)
				}
				v := view.NewProfile(rt.API, rt.Session)
				defer v.Unmount()
				if err := v.ChangePassword(ctx, current, next, confirm); err != nil {
					msg := v.State().PasswordError
					if msg == "" {
						return actionError(err)
					}
					code := exitFailure
					if errors.Is(err, view.ErrPasswordForm) {
						code = exitUsage
					}
					return exitError(code, "%s", msg)
				}
				st := v.State()
				return p.emit(st, func(w io.Writer) {
					fmt.Fprintln(w, st.PasswordSuccess)
				})
			})
		},
	}
	cmd.Flags().String("current", "", "Current password")
	cmd.Flags().String("new", "", "New password, at least 8 characters")
	cmd.Flags().String("confirm", "", "New password again")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"movie-discovery-frontend/internal/view"
)

func newHomeCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "List popular movies, or your personalized picks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			forYou, _ := cmd.Flags().GetBool("for-you")
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				v := view.NewHome(rt.API, rt.Session)
				defer v.Unmount()
				v.Load(ctx)
				if forYou {
					if !rt.Session.IsAuthenticated() {
						return actionError(view.ErrSignInRequired)
					}
					v.SetTab(view.TabForYou)
				}
				st := v.State()
				return p.emit(st, func(w io.Writer) {
					writeMovies(w, st.Visible())
				})
			})
		},
	}
	cmd.Flags().Bool("for-you", false, "Show personalized recommendations")
	return cmd
}

func newShowCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "show <movie-id>",
		Short: "Show a movie with related titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				st, err := loadDetail(ctx, rt, args[0], nil)
				if err != nil {
					return err
				}
				return p.emit(st, func(w io.Writer) { writeDetail(w, st) })
			})
		},
	}
}

// loadDetail loads movie id and runs action on it, if any.
func loadDetail(ctx context.Context, rt *Runtime, id string, action func(*view.Detail) error) (view.DetailState, error) {
	v := view.NewDetail(rt.API, rt.Session, id)
	defer v.Unmount()
	v.Load(ctx)

	st := v.State()
	switch {
	case st.NotFound && st.Error != "":
		return st, exitError(exitFailure, "%s", st.Error)
	case st.NotFound:
		return st, exitError(exitNotFound, "Movie not found: %s", id)
	}
	if action != nil {
		if err := action(v); err != nil {
			return st, actionError(err)
		}
	}
	return v.State(), nil
}

func newSearchCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <terms>...",
		Short: "Search movies by title, director or cast",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				v := view.NewSearch(rt.API, rt.Session, view.WithPageSize(rt.PageSize))
				defer v.Unmount()
				v.Submit(ctx, strings.Join(args, " "))
				v.SetPage(page)

				st := v.State()
				if st.Error != "" {
					return exitError(exitFailure, "%s", st.Error)
				}
				return p.emit(st, func(w io.Writer) {
					if st.Info != "" {
						fmt.Fprintln(w, st.Info)
						return
					}
					writePage(w, st.Page)
				})
			})
		},
	}
	cmd.Flags().Int("page", 1, "Page of results")
	return cmd
}

func newRecommendCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "List movies recommended for you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, _ := cmd.Flags().GetInt("page")
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				v := view.NewRecommendations(rt.API, rt.Session, view.WithPageSize(rt.PageSize))
				defer v.Unmount()
				v.Load(ctx)
				v.SetPage(page)

				st := v.State()
				if st.Error != "" {
					return exitError(exitFailure, "%s", st.Error)
				}
				return p.emit(st, func(w io.Writer) {
					if st.Info != "" {
						fmt.Fprintln(w, st.Info)
						return
					}
					writePage(w, st.Page)
				})
			})
		},
	}
	cmd.Flags().Int("page", 1, "Page of results")
	return cmd
}

func newRateCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <movie-id> <stars>",
		Short: "Rate a movie from 0 to 5 stars in half steps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stars, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return exitError(exitUsage, "invalid rating %q", args[1])
			}
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				st, err := loadDetail(ctx, rt, args[0], func(v *view.Detail) error {
					return v.Rate(ctx, stars)
				})
				if err != nil {
					return err
				}
				return p.emit(st, func(w io.Writer) {
					fmt.Fprintf(w, "Rated %s %.1f/5\n", st.Movie.Name, st.UserRating)
				})
			})
		},
	}
}

func newToggleCmd(load Loader, name, short string, toggle func(*view.Detail, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <movie-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, load, func(ctx context.Context, rt *Runtime, p *printer) error {
				st, err := loadDetail(ctx, rt, args[0], func(v *view.Detail) error {
					return toggle(v, ctx)
				})
				if err != nil {
					return err
				}
				in := st.InWatchlist
				list := "watchlist"
				if name == "favorite" {
					in = st.InFavorites
					list = "favorites"
				}
				return p.emit(st, func(w io.Writer) {
					if in {
						fmt.Fprintf(w, "Added %s to your %s\n", st.Movie.Name, list)
					} else {
						fmt.Fprintf(w, "Removed %s from your %s\n", st.Movie.Name, list)
					}
				})
			})
		},
	}
}

package view

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/models"
)

// MaxStars is the top of the star rating scale.
const MaxStars = 5

// ErrInvalidRating is returned for ratings outside 0-5 or off the half-star grid.
var ErrInvalidRating = fmt.Errorf("rating must be between 0 and %d in half steps", MaxStars)

// DetailState is what the detail screen renders.
type DetailState struct {
	Loading     bool                  `json:"loading"`
	NotFound    bool                  `json:"not_found"`
	Error       string                `json:"error,omitempty"`
	Movie       *models.MovieDetail   `json:"movie"`
	Related     []models.MovieSummary `json:"related"`
	UserRating  float64               `json:"user_rating"`
	InWatchlist bool                  `json:"in_watchlist"`
	InFavorites bool                  `json:"in_favorites"`
	CanInteract bool                  `json:"can_interact"`
}

// Detail shows one movie, related titles and the user's interactions.
type Detail struct {
	base
	api   API
	sess  Session
	id    string
	state DetailState
}

// NewDetail creates the detail view for movie id.
func NewDetail(api API, sess Session, id string) *Detail {
	return &Detail{
		base: newBase(),
		api:  api,
		sess: sess,
		id:   id,
		state: DetailState{
			Loading: true,
			Related: []models.MovieSummary{},
		},
	}
}

// ID returns the movie id the view was created for.
func (d *Detail) ID() string {
	return d.id
}

// Load fetches the movie and its related titles concurrently.
func (d *Detail) Load(ctx context.Context) {
	ctx, cancel := d.bind(ctx)
	defer cancel()

	d.apply(func() {
		d.state.Loading = true
		d.state.CanInteract = d.sess.IsAuthenticated()
	})

	var (
		movie    *models.MovieDetail
		movieErr error
		related  []models.MovieSummary
		g        errgroup.Group
	)
	g.Go(func() error {
		movie, movieErr = d.api.GetMovie(ctx, d.sess, d.id)
		if movieErr != nil {
			slog.Error("failed to fetch movie details", "movie_id", d.id, "error", movieErr)
		}
		return nil
	})
	g.Go(func() error {
		list, err := d.api.Recommendations(ctx, d.sess, d.id)
		if err != nil {
			slog.Error("failed to fetch related movies", "movie_id", d.id, "error", err)
			return nil
		}
		related = list
		return nil
	})
	_ = g.Wait()

	d.apply(func() {
		d.state.Loading = false
		if movie == nil {
			d.state.NotFound = true
			if movieErr != nil && !apiclient.IsNotFound(movieErr) {
				d.state.Error = "Failed to load movie details."
			}
			return
		}
		d.state.Movie = movie
		if movie.UserRating != nil {
			d.state.UserRating = Stars(*movie.UserRating)
		}
		d.state.InWatchlist = movie.InWatchlist
		d.state.InFavorites = movie.InFavorites
		if related != nil {
			d.state.Related = related
		}
	})
}

// Rate submits a 0-5 star rating in half steps.
func (d *Detail) Rate(ctx context.Context, stars float64) error {
	if !d.sess.IsAuthenticated() {
		return ErrSignInRequired
	}
	if stars < 0 || stars > MaxStars || math.Mod(stars*2, 1) != 0 {
		return ErrInvalidRating
	}
	ctx, cancel := d.bind(ctx)
	defer cancel()

	if err := d.api.RateMovie(ctx, d.sess, d.id, stars*2); err != nil {
		slog.Error("failed to submit rating", "movie_id", d.id, "error", err)
		return err
	}
	if !d.apply(func() { d.state.UserRating = stars }) {
		return ErrUnmounted
	}
	return nil
}

// ToggleWatchlist adds the movie to the watchlist, or removes it.
func (d *Detail) ToggleWatchlist(ctx context.Context) error {
	return d.toggle(ctx, "watchlist", d.api.UpdateWatchlist, &d.state.InWatchlist)
}

// ToggleFavorite adds the movie to the favorites, or removes it.
func (d *Detail) ToggleFavorite(ctx context.Context) error {
	return d.toggle(ctx, "favorites", d.api.UpdateFavorites, &d.state.InFavorites)
}

type membershipFunc func(ctx context.Context, creds apiclient.Credentials, id, action string) error

func (d *Detail) toggle(ctx context.Context, list string, update membershipFunc, flag *bool) error {
	if !d.sess.IsAuthenticated() {
		return ErrSignInRequired
	}
	ctx, cancel := d.bind(ctx)
	defer cancel()

	d.mu.RLock()
	in := *flag
	d.mu.RUnlock()

	action := models.ActionAdd
	if in {
		action = models.ActionRemove
	}
	if err := update(ctx, d.sess, d.id, action); err != nil {
		slog.Error("failed to update list", "list", list, "movie_id", d.id, "action", action, "error", err)
		return err
	}
	if !d.apply(func() { *flag = !in }) {
		return ErrUnmounted
	}
	return nil
}

// State returns a copy of the current state.
func (d *Detail) State() DetailState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

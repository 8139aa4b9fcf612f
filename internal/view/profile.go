package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/models"
)

// Profile tabs.
const (
	TabRated = iota
	TabFavorites
	TabWatchlist
)

// Profile screen messages.
const (
	MsgProfileSignIn       = "Please log in to view your profile."
	MsgProfileFailed       = "Failed to load your profile data. Please try again."
	MsgRemoveFavoriteFail  = "Failed to remove movie from favorites."
	MsgRemoveWatchlistFail = "Failed to remove movie from watchlist."
	MsgNoRated             = "You haven't rated any movies yet."
	MsgNoFavorites         = "You haven't added any favorites yet."
	MsgEmptyWatchlist      = "Your watchlist is empty."

	MsgPasswordFields   = "Please fill in all fields"
	MsgPasswordMismatch = "New passwords do not match"
	MsgPasswordShort    = "Password must be at least 8 characters"
	MsgPasswordChanged  = "Password changed successfully"
	MsgPasswordFailed   = "Failed to change password. Please try again."
)

// ErrPasswordForm is returned when the password form fails local checks.
var ErrPasswordForm = errors.New("invalid password form")

// MinPasswordLength is the shortest new password accepted locally.
const MinPasswordLength = 8

// ProfileState is what the profile screen renders.
type ProfileState struct {
	Loading         bool               `json:"loading"`
	SignedIn        bool               `json:"signed_in"`
	Warning         string             `json:"warning,omitempty"`
	Error           string             `json:"error,omitempty"`
	User            *models.User       `json:"user"`
	Tab             int                `json:"tab"`
	Rated           []models.UserMovie `json:"rated"`
	Favorites       []models.UserMovie `json:"favorites"`
	Watchlist       []models.UserMovie `json:"watchlist"`
	PasswordError   string             `json:"password_error,omitempty"`
	PasswordSuccess string             `json:"password_success,omitempty"`
}

// EmptyMessage returns the notice for the selected tab when its list is empty.
func (s ProfileState) EmptyMessage() string {
	switch s.Tab {
	case TabFavorites:
		if len(s.Favorites) == 0 {
			return MsgNoFavorites
		}
	case TabWatchlist:
		if len(s.Watchlist) == 0 {
			return MsgEmptyWatchlist
		}
	default:
		if len(s.Rated) == 0 {
			return MsgNoRated
		}
	}
	return ""
}

// Profile shows the signed-in user's lists and account actions.
type Profile struct {
	base
	api   API
	sess  Session
	state ProfileState
}

// NewProfile creates the profile view.
func NewProfile(api API, sess Session) *Profile {
	return &Profile{
		base: newBase(),
		api:  api,
		sess: sess,
		state: ProfileState{
			Loading:   true,
			Rated:     []models.UserMovie{},
			Favorites: []models.UserMovie{},
			Watchlist: []models.UserMovie{},
		},
	}
}

// Load fetches the rated, favorites and watchlist lists together. If any of
// them fails, none are shown.
func (p *Profile) Load(ctx context.Context) {
	if !p.sess.IsAuthenticated() {
		p.apply(func() {
			p.state.Loading = false
			p.state.SignedIn = false
			p.state.User = nil
			p.state.Warning = MsgProfileSignIn
		})
		return
	}

	ctx, cancel := p.bind(ctx)
	defer cancel()

	user := p.sess.User()
	p.apply(func() {
		p.state.Loading = true
		p.state.SignedIn = true
		p.state.Warning = ""
		p.state.Error = ""
		p.state.User = user
	})

	var rated, favorites, watchlist []models.UserMovie
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(list string, dst *[]models.UserMovie) {
		g.Go(func() error {
			movies, err := p.api.UserList(gctx, p.sess, list)
			if err != nil {
				return err
			}
			*dst = movies
			return nil
		})
	}
	fetch(apiclient.ListRated, &rated)
	fetch(apiclient.ListFavorites, &favorites)
	fetch(apiclient.ListWatchlist, &watchlist)
	err := g.Wait()

	p.apply(func() {
		p.state.Loading = false
		if err != nil {
			slog.Error("failed to fetch profile data", "error", err)
			p.state.Error = MsgProfileFailed
			return
		}
		p.state.Rated = rated
		p.state.Favorites = favorites
		p.state.Watchlist = watchlist
	})
}

// SetTab selects the rated, favorites or watchlist tab.
func (p *Profile) SetTab(tab int) {
	if tab < TabRated || tab > TabWatchlist {
		tab = TabRated
	}
	p.apply(func() { p.state.Tab = tab })
}

// RemoveFavorite deletes one movie from the favorites.
func (p *Profile) RemoveFavorite(ctx context.Context, id string) error {
	return p.remove(ctx, apiclient.ListFavorites, id, &p.state.Favorites, MsgRemoveFavoriteFail)
}

// RemoveFromWatchlist deletes one movie from the watchlist.
func (p *Profile) RemoveFromWatchlist(ctx context.Context, id string) error {
	return p.remove(ctx, apiclient.ListWatchlist, id, &p.state.Watchlist, MsgRemoveWatchlistFail)
}

func (p *Profile) remove(ctx context.Context, list, id string, dst *[]models.UserMovie, failMsg string) error {
	if !p.sess.IsAuthenticated() {
		return ErrSignInRequired
	}
	ctx, cancel := p.bind(ctx)
	defer cancel()

	if err := p.api.RemoveFromList(ctx, p.sess, list, id); err != nil {
		slog.Error("failed to remove movie", "list", list, "movie_id", id, "error", err)
		p.apply(func() { p.state.Error = failMsg })
		return err
	}
	if !p.apply(func() {
		i := slices.IndexFunc(*dst, func(m models.UserMovie) bool { return m.ID == id })
		if i >= 0 {
			// copies handed out by State share the old backing array
			*dst = slices.Delete(slices.Clone(*dst), i, i+1)
		}
	}) {
		return ErrUnmounted
	}
	return nil
}

// ChangePassword validates the form locally and submits it.
func (p *Profile) ChangePassword(ctx context.Context, current, next, confirm string) error {
	fail := func(msg string) error {
		p.apply(func() {
			p.state.PasswordError = msg
			p.state.PasswordSuccess = ""
		})
		return fmt.Errorf("%w: %s", ErrPasswordForm, msg)
	}
	switch {
	case current == "" || next == "" || confirm == "":
		return fail(MsgPasswordFields)
	case next != confirm:
		return fail(MsgPasswordMismatch)
	case len(next) < MinPasswordLength:
		return fail(MsgPasswordShort)
	}
	if !p.sess.IsAuthenticated() {
		return ErrSignInRequired
	}

	ctx, cancel := p.bind(ctx)
	defer cancel()

	err := p.api.ChangePassword(ctx, p.sess, models.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		slog.Error("failed to change password", "error", err)
		msg := apiclient.Detail(err)
		if msg == "" {
			msg = MsgPasswordFailed
		}
		p.apply(func() {
			p.state.PasswordError = msg
			p.state.PasswordSuccess = ""
		})
		return err
	}
	p.apply(func() {
		p.state.PasswordError = ""
		p.state.PasswordSuccess = MsgPasswordChanged
	})
	return nil
}

// State returns a copy of the current state.
func (p *Profile) State() ProfileState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

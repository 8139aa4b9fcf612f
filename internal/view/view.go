// Package view implements the screens of the movie front end.
//
// Each view issues its own requests when loaded, tracks a loading flag and
// an inline error string, and is safe to read from other goroutines through
// State. Failures are logged and turned into display text; nothing is
// retried. Mutations update local state only after the remote service has
// confirmed them, and never re-fetch; a failed mutation leaves state as it
// was.
//
// Unmount cancels in-flight requests and drops late results, so a view that
// is torn down mid-request never changes afterwards.
package view

import (
	"context"
	"errors"
	"sync"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/models"
)

// API is the part of the remote service the views call.
type API interface {
	ListMovies(ctx context.Context, creds apiclient.Credentials, search string) ([]models.MovieSummary, error)
	PersonalizedMovies(ctx context.Context, creds apiclient.Credentials) ([]models.MovieSummary, error)
	Recommendations(ctx context.Context, creds apiclient.Credentials, movieID string) ([]models.MovieSummary, error)
	GetMovie(ctx context.Context, creds apiclient.Credentials, id string) (*models.MovieDetail, error)
	RateMovie(ctx context.Context, creds apiclient.Credentials, id string, rating float64) error
	UpdateWatchlist(ctx context.Context, creds apiclient.Credentials, id, action string) error
	UpdateFavorites(ctx context.Context, creds apiclient.Credentials, id, action string) error
	UserList(ctx context.Context, creds apiclient.Credentials, list string) ([]models.UserMovie, error)
	RemoveFromList(ctx context.Context, creds apiclient.Credentials, list, movieID string) error
	ChangePassword(ctx context.Context, creds apiclient.Credentials, req models.ChangePasswordRequest) error
}

// Session is the read side of the session store.
type Session interface {
	apiclient.Credentials
	IsAuthenticated() bool
	User() *models.User
}

var (
	// ErrSignInRequired is returned by actions that need a signed-in user.
	ErrSignInRequired = errors.New("sign in required")
	// ErrUnmounted is returned by actions on a view that was torn down.
	ErrUnmounted = errors.New("view unmounted")
)

// base carries the lock and lifetime shared by every view.
type base struct {
	mu        sync.RWMutex
	life      context.Context
	end       context.CancelFunc
	unmounted bool
}

func newBase() base {
	life, end := context.WithCancel(context.Background())
	return base{life: life, end: end}
}

// bind derives a request context that also ends when the view unmounts.
func (b *base) bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(b.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// apply runs fn under the write lock unless the view was unmounted.
func (b *base) apply(fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unmounted {
		return false
	}
	fn()
	return true
}

// Unmount cancels in-flight requests; later results are discarded.
func (b *base) Unmount() {
	b.mu.Lock()
	b.unmounted = true
	b.mu.Unlock()
	b.end()
}

// Stars converts the remote 0-10 scale to 0-5 stars.
func Stars(v float64) float64 {
	return v / 2
}

package view

import (
	"context"
	"log/slog"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/pagination"
)

// Recommendations screen messages.
const (
	MsgRecommendationsSignIn = "Please log in to see personalized movie recommendations."
	MsgRecommendationsEmpty  = "Rate more movies to get personalized recommendations!"
	MsgRecommendationsFailed = "Failed to load recommendations. Please try again later."
)

// RecommendationsState is what the recommendations screen renders.
type RecommendationsState struct {
	Loading  bool                                 `json:"loading"`
	SignedIn bool                                 `json:"signed_in"`
	Error    string                               `json:"error,omitempty"`
	Info     string                               `json:"info,omitempty"`
	Page     pagination.Page[models.MovieSummary] `json:"page"`
}

// Recommendations lists the signed-in user's recommended movies.
type Recommendations struct {
	base
	api      API
	sess     Session
	pager    pager
	loading  bool
	signedIn bool
	err      string
}

// NewRecommendations creates the recommendations view.
func NewRecommendations(api API, sess Session, opts ...Option) *Recommendations {
	return &Recommendations{
		base:    newBase(),
		api:     api,
		sess:    sess,
		pager:   newPager(opts),
		loading: true,
	}
}

// Load fetches the whole recommendation set. Anonymous users get a message
// and no request is made.
func (r *Recommendations) Load(ctx context.Context) {
	if !r.sess.IsAuthenticated() {
		r.apply(func() {
			r.signedIn = false
			r.loading = false
		})
		return
	}

	ctx, cancel := r.bind(ctx)
	defer cancel()

	r.apply(func() {
		r.signedIn = true
		r.loading = true
		r.err = ""
	})

	list, err := r.api.Recommendations(ctx, r.sess, "")

	r.apply(func() {
		r.loading = false
		if err != nil {
			slog.Error("failed to fetch recommendations", "error", err)
			r.err = MsgRecommendationsFailed
			return
		}
		r.pager.reset(list)
	})
}

// SetPage selects a page of the recommendations.
func (r *Recommendations) SetPage(n int) {
	r.pager.set(&r.base, n)
}

// State returns a copy of the current state.
func (r *Recommendations) State() RecommendationsState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := RecommendationsState{
		Loading:  r.loading,
		SignedIn: r.signedIn,
		Error:    r.err,
		Page:     r.pager.page(),
	}
	switch {
	case r.loading:
	case !r.signedIn:
		st.Info = MsgRecommendationsSignIn
	case r.err == "" && len(r.pager.items) == 0:
		st.Info = MsgRecommendationsEmpty
	}
	return st
}

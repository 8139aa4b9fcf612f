package view

import (
	"context"
	"log/slog"
	"strings"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/pagination"
)

// Search screen messages.
const (
	MsgEmptyQuery    = "Please enter a search term"
	MsgSearchFailed  = "An error occurred while searching. Please try again."
	MsgNoSearchMatch = "No movies found matching your search criteria."
)

// SearchState is what the search screen renders.
type SearchState struct {
	Query    string                               `json:"query"`
	Loading  bool                                 `json:"loading"`
	Searched bool                                 `json:"searched"`
	Error    string                               `json:"error,omitempty"`
	Info     string                               `json:"info,omitempty"`
	Page     pagination.Page[models.MovieSummary] `json:"page"`
}

// Search runs catalog searches and pages through the results locally.
type Search struct {
	base
	api     API
	sess    Session
	pager   pager
	query   string
	loading bool
	done    bool
	err     string
}

// NewSearch creates the search view.
func NewSearch(api API, sess Session, opts ...Option) *Search {
	return &Search{
		base:  newBase(),
		api:   api,
		sess:  sess,
		pager: newPager(opts),
	}
}

// Submit searches the catalog for query. A blank query sends no request.
func (s *Search) Submit(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.apply(func() { s.err = MsgEmptyQuery })
		return
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()

	s.apply(func() {
		s.query = query
		s.loading = true
		s.err = ""
		s.done = true
	})

	results, err := s.api.ListMovies(ctx, s.sess, query)

	s.apply(func() {
		s.loading = false
		if err != nil {
			slog.Error("search failed", "query", query, "error", err)
			s.err = MsgSearchFailed
			return
		}
		s.pager.reset(results)
	})
}

// SetPage selects a page of the current results.
func (s *Search) SetPage(n int) {
	s.pager.set(&s.base, n)
}

// State returns a copy of the current state.
func (s *Search) State() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := SearchState{
		Query:    s.query,
		Loading:  s.loading,
		Searched: s.done,
		Error:    s.err,
		Page:     s.pager.page(),
	}
	if s.done && !s.loading && s.err == "" && len(s.pager.items) == 0 {
		st.Info = MsgNoSearchMatch
	}
	return st
}

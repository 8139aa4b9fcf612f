package view

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"movie-discovery-frontend/internal/models"
)

// Home tabs.
const (
	TabPopular = iota
	TabForYou
)

// HomeState is what the home screen renders.
type HomeState struct {
	Loading          bool                  `json:"loading"`
	Tab              int                   `json:"tab"`
	Movies           []models.MovieSummary `json:"movies"`
	Personalized     []models.MovieSummary `json:"personalized"`
	ShowPersonalized bool                  `json:"show_personalized"`
}

// Home lists the catalog and, for signed-in users, personalized picks.
type Home struct {
	base
	api   API
	sess  Session
	state HomeState
}

// NewHome creates the home view.
func NewHome(api API, sess Session) *Home {
	return &Home{
		base: newBase(),
		api:  api,
		sess: sess,
		state: HomeState{
			Loading:      true,
			Movies:       []models.MovieSummary{},
			Personalized: []models.MovieSummary{},
		},
	}
}

// Load fetches the catalog and the personalized list concurrently.
func (h *Home) Load(ctx context.Context) {
	ctx, cancel := h.bind(ctx)
	defer cancel()

	signedIn := h.sess.IsAuthenticated()
	h.apply(func() {
		h.state.Loading = true
		h.state.ShowPersonalized = signedIn
	})

	var (
		movies       []models.MovieSummary
		personalized []models.MovieSummary
		g            errgroup.Group
	)
	g.Go(func() error {
		list, err := h.api.ListMovies(ctx, h.sess, "")
		if err != nil {
			slog.Error("failed to fetch movies", "error", err)
			return nil
		}
		movies = list
		return nil
	})
	if signedIn {
		g.Go(func() error {
			list, err := h.api.PersonalizedMovies(ctx, h.sess)
			if err != nil {
				slog.Error("failed to fetch personalized recommendations", "error", err)
				return nil
			}
			personalized = list
			return nil
		})
	}
	_ = g.Wait()

	h.apply(func() {
		h.state.Loading = false
		if movies != nil {
			h.state.Movies = movies
		}
		if personalized != nil {
			h.state.Personalized = personalized
		}
	})
}

// SetTab switches between the popular and personalized tabs.
func (h *Home) SetTab(tab int) {
	h.apply(func() {
		if tab == TabForYou && !h.state.ShowPersonalized {
			tab = TabPopular
		}
		if tab < TabPopular || tab > TabForYou {
			tab = TabPopular
		}
		h.state.Tab = tab
	})
}

// Visible returns the movies of the selected tab.
func (s HomeState) Visible() []models.MovieSummary {
	if s.Tab == TabForYou {
		return s.Personalized
	}
	return s.Movies
}

// State returns a copy of the current state.
func (h *Home) State() HomeState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

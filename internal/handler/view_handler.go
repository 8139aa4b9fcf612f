package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/view"
)

// HomeResponse is the home screen with the selected tab's movies.
type HomeResponse struct {
	view.HomeState
	Visible []models.MovieSummary `json:"visible"`
}

// RatingBody is the request body for POST /views/movies/:id/rating.
type RatingBody struct {
	Stars float64 `json:"stars"`
}

// PasswordBody is the request body for POST /views/profile/password.
type PasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Home renders the catalog and, when signed in, personalized picks.
// @Summary Home screen
// @Tags views
// @Produce json
// @Param tab query int false "0 popular, 1 for you" default(0)
// @Success 200 {object} HomeResponse
// @Router /views/home [get]
func (h *Handler) Home(c fiber.Ctx) error {
	v := view.NewHome(h.api, h.sess)
	defer v.Unmount()
	v.Load(c.Context())
	v.SetTab(fiber.Query(c, "tab", view.TabPopular))

	st := v.State()
	return c.JSON(HomeResponse{HomeState: st, Visible: st.Visible()})
}

// MovieDetail renders one movie with related titles.
// @Summary Movie detail screen
// @Tags views
// @Produce json
// @Param id path string true "IMDb id"
// @Success 200 {object} view.DetailState
// @Failure 404 {object} view.DetailState
// @Failure 502 {object} view.DetailState
// @Router /views/movies/{id} [get]
func (h *Handler) MovieDetail(c fiber.Ctx) error {
	v := view.NewDetail(h.api, h.sess, c.Params("id"))
	defer v.Unmount()
	v.Load(c.Context())
	return detailResponse(c, v.State())
}

func detailResponse(c fiber.Ctx, st view.DetailState) error {
	switch {
	case st.NotFound && st.Error != "":
		return c.Status(fiber.StatusBadGateway).JSON(st)
	case st.NotFound:
		return c.Status(fiber.StatusNotFound).JSON(st)
	}
	return c.JSON(st)
}

// RateMovie submits a star rating for the signed-in user.
// @Summary Rate a movie
// @Tags views
// @Accept json
// @Produce json
// @Param id path string true "IMDb id"
// @Param body body RatingBody true "0-5 stars in half steps"
// @Success 200 {object} view.DetailState
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /views/movies/{id}/rating [post]
func (h *Handler) RateMovie(c fiber.Ctx) error {
	var body RatingBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	return h.detailAction(c, func(v *view.Detail) error {
		return v.Rate(c.Context(), body.Stars)
	})
}

// ToggleWatchlist adds the movie to the watchlist, or removes it.
// @Summary Toggle watchlist
// @Tags views
// @Produce json
// @Param id path string true "IMDb id"
// @Success 200 {object} view.DetailState
// @Failure 401 {object} ErrorResponse
// @Router /views/movies/{id}/watchlist [post]
func (h *Handler) ToggleWatchlist(c fiber.Ctx) error {
	return h.detailAction(c, func(v *view.Detail) error {
		return v.ToggleWatchlist(c.Context())
	})
}

// ToggleFavorite adds the movie to the favorites, or removes it.
// @Summary Toggle favorite
// @Tags views
// @Produce json
// @Param id path string true "IMDb id"
// @Success 200 {object} view.DetailState
// @Failure 401 {object} ErrorResponse
// @Router /views/movies/{id}/favorite [post]
func (h *Handler) ToggleFavorite(c fiber.Ctx) error {
	return h.detailAction(c, func(v *view.Detail) error {
		return v.ToggleFavorite(c.Context())
	})
}

// detailAction loads the movie so the action sees its current flags, then
// runs it.
func (h *Handler) detailAction(c fiber.Ctx, action func(*view.Detail) error) error {
	v := view.NewDetail(h.api, h.sess, c.Params("id"))
	defer v.Unmount()
	v.Load(c.Context())
	if st := v.State(); st.NotFound {
		return detailResponse(c, st)
	}
	if err := action(v); err != nil {
		slog.Warn("movie action failed", "movie_id", v.ID(), "path", c.Path(), "error", err)
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: errorMessage(err)})
	}
	return c.JSON(v.State())
}

// Search renders a page of catalog search results.
// @Summary Search screen
// @Tags views
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} view.SearchState
// @Router /views/search [get]
func (h *Handler) Search(c fiber.Ctx) error {
	v := view.NewSearch(h.api, h.sess, view.WithPageSize(h.pageSize))
	defer v.Unmount()
	v.Submit(c.Context(), c.Query("q"))
	v.SetPage(fiber.Query(c, "page", 1))
	return c.JSON(v.State())
}

// Recommendations renders a page of the signed-in user's recommendations.
// @Summary Recommendations screen
// @Tags views
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} view.RecommendationsState
// @Router /views/recommendations [get]
func (h *Handler) Recommendations(c fiber.Ctx) error {
	v := view.NewRecommendations(h.api, h.sess, view.WithPageSize(h.pageSize))
	defer v.Unmount()
	v.Load(c.Context())
	v.SetPage(fiber.Query(c, "page", 1))
	return c.JSON(v.State())
}

// Profile renders the signed-in user's lists.
// @Summary Profile screen
// @Tags views
// @Produce json
// @Param tab query int false "0 rated, 1 favorites, 2 watchlist" default(0)
// @Success 200 {object} view.ProfileState
// @Router /views/profile [get]
func (h *Handler) Profile(c fiber.Ctx) error {
	v := view.NewProfile(h.api, h.sess)
	defer v.Unmount()
	v.Load(c.Context())
	v.SetTab(fiber.Query(c, "tab", view.TabRated))
	return c.JSON(v.State())
}

// RemoveFavorite deletes a movie from the favorites.
// @Summary Remove favorite
// @Tags views
// @Produce json
// @Param id path string true "IMDb id"
// @Success 200 {object} view.ProfileState
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /views/profile/favorites/{id} [delete]
func (h *Handler) RemoveFavorite(c fiber.Ctx) error {
	return h.profileAction(c, func(v *view.Profile) error {
		return v.RemoveFavorite(c.Context(), c.Params("id"))
	})
}

// RemoveFromWatchlist deletes a movie from the watchlist.
// @Summary Remove from watchlist
// @Tags views
// @Produce json
// @Param id path string true "IMDb id"
// @Success 200 {object} view.ProfileState
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /views/profile/watchlist/{id} [delete]
func (h *Handler) RemoveFromWatchlist(c fiber.Ctx) error {
	return h.profileAction(c, func(v *view.Profile) error {
		return v.RemoveFromWatchlist(c.Context(), c.Params("id"))
	})
}

// ChangePassword changes the signed-in user's password.
// @Summary Change password
// @Tags views
// @Accept json
// @Produce json
// @Param body body PasswordBody true "Passwords"
// @Success 200 {object} view.ProfileState
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /views/profile/password [post]
func (h *Handler) ChangePassword(c fiber.Ctx) error {
	var body PasswordBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	v := view.NewProfile(h.api, h.sess)
	defer v.Unmount()
	if err := v.ChangePassword(c.Context(), body.CurrentPassword, body.NewPassword, body.ConfirmPassword); err != nil {
		msg := v.State().PasswordError
		if msg == "" {
			msg = errorMessage(err)
		}
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: msg})
	}
	return c.JSON(v.State())
}

func (h *Handler) profileAction(c fiber.Ctx, action func(*view.Profile) error) error {
	v := view.NewProfile(h.api, h.sess)
	defer v.Unmount()
	v.Load(c.Context())
	if err := action(v); err != nil {
		slog.Warn("profile action failed", "path", c.Path(), "error", err)
		msg := v.State().Error
		if msg == "" {
			msg = errorMessage(err)
		}
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: msg})
	}
	return c.JSON(v.State())
}

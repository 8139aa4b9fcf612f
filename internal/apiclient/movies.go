package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/validation"
)

// movieList accepts both a bare array and the paginated envelope.
type movieList []models.MovieSummary

func (l *movieList) UnmarshalJSON(data []byte) error {
	var items []models.MovieSummary
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var env models.MovieListEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unexpected movie list shape: %w", err)
	}
	*l = env.Results
	return nil
}

func (c *Client) getMovieList(ctx context.Context, creds Credentials, path string, query url.Values) ([]models.MovieSummary, error) {
	var list movieList
	if err := c.do(ctx, creds, http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return []models.MovieSummary{}, nil
	}
	return list, nil
}

// ListMovies fetches the catalog, optionally filtered by a search term.
// The whole result set is returned.
func (c *Client) ListMovies(ctx context.Context, creds Credentials, search string) ([]models.MovieSummary, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	return c.getMovieList(ctx, creds, "/api/movies/", q)
}

// PersonalizedMovies fetches the signed-in user's personalized picks.
func (c *Client) PersonalizedMovies(ctx context.Context, creds Credentials) ([]models.MovieSummary, error) {
	return c.getMovieList(ctx, creds, "/api/movies/personalized/", nil)
}

// Recommendations fetches recommendations, related to movieID when it is set.
func (c *Client) Recommendations(ctx context.Context, creds Credentials, movieID string) ([]models.MovieSummary, error) {
	var q url.Values
	if movieID != "" {
		q = url.Values{"movie_id": {movieID}}
	}
	return c.getMovieList(ctx, creds, "/api/movies/recommendations/", q)
}

// GetMovie fetches detailed movie info.
func (c *Client) GetMovie(ctx context.Context, creds Credentials, id string) (*models.MovieDetail, error) {
	var detail models.MovieDetail
	if err := c.do(ctx, creds, http.MethodGet, moviePath(id, ""), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// RateMovie submits a rating on the 0-10 scale.
func (c *Client) RateMovie(ctx context.Context, creds Credentials, id string, rating float64) error {
	body := models.RateRequest{Rating: rating}
	if err := validation.Struct(body); err != nil {
		return err
	}
	return c.do(ctx, creds, http.MethodPost, moviePath(id, "rate/"), nil, body, nil)
}

// UpdateWatchlist adds the movie to, or removes it from, the watchlist.
func (c *Client) UpdateWatchlist(ctx context.Context, creds Credentials, id, action string) error {
	return c.updateMembership(ctx, creds, moviePath(id, "watchlist/"), action)
}

// UpdateFavorites adds the movie to, or removes it from, the favorites.
func (c *Client) UpdateFavorites(ctx context.Context, creds Credentials, id, action string) error {
	return c.updateMembership(ctx, creds, moviePath(id, "favorite/"), action)
}

func (c *Client) updateMembership(ctx context.Context, creds Credentials, path, action string) error {
	body := models.MembershipRequest{Action: action}
	if err := validation.Struct(body); err != nil {
		return err
	}
	return c.do(ctx, creds, http.MethodPost, path, nil, body, nil)
}

func moviePath(id, suffix string) string {
	return "/api/movies/" + url.PathEscape(id) + "/" + suffix
}

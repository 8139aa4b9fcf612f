package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/validation"
)

// Profile lists.
const (
	ListRated     = "rated-movies"
	ListFavorites = "favorites"
	ListWatchlist = "watchlist"
)

// UserList fetches one of the signed-in user's movie lists.
func (c *Client) UserList(ctx context.Context, creds Credentials, list string) ([]models.UserMovie, error) {
	var movies []models.UserMovie
	if err := c.do(ctx, creds, http.MethodGet, "/api/user/"+list+"/", nil, nil, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.UserMovie{}
	}
	return movies, nil
}

// RemoveFromList deletes a single movie from one of the user's lists.
func (c *Client) RemoveFromList(ctx context.Context, creds Credentials, list, movieID string) error {
	path := "/api/user/" + list + "/" + url.PathEscape(movieID) + "/"
	return c.do(ctx, creds, http.MethodDelete, path, nil, nil, nil)
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, creds Credentials, req models.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return c.do(ctx, creds, http.MethodPost, "/api/user/change-password/", nil, req, nil)
}

package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/validation"
)

// CurrentUser fetches the profile that token belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, StaticToken(token), http.MethodGet, "/api/auth/user/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and the user record.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	req := models.LoginRequest{Username: username, Password: password}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var resp models.LoginResponse
	if err := c.do(ctx, Anonymous, http.MethodPost, "/api/auth/login/", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	if resp.User.Username == "" {
		return nil, fmt.Errorf("login response carried no user")
	}
	return &resp, nil
}

// Register creates an account. It does not sign the caller in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return c.do(ctx, Anonymous, http.MethodPost, "/api/auth/register/", nil, req, nil)
}

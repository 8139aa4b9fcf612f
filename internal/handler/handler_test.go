package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/apitest"
	"movie-discovery-frontend/internal/view"
)

func TestStatusFor(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("GET", "/api/movies/tt1/", http.StatusNotFound)
	srv.Fail("GET", "/api/movies/tt2/", http.StatusInternalServerError)
	c := apiclient.NewClient(srv.URL)
	_, notFound := c.GetMovie(context.Background(), apiclient.Anonymous, "tt1")
	_, upstream := c.GetMovie(context.Background(), apiclient.Anonymous, "tt2")

	cases := []struct {
		err  error
		want int
	}{
		{view.ErrSignInRequired, fiber.StatusUnauthorized},
		{view.ErrInvalidRating, fiber.StatusBadRequest},
		{fmt.Errorf("%w: too short", view.ErrPasswordForm), fiber.StatusBadRequest},
		{notFound, fiber.StatusNotFound},
		{upstream, fiber.StatusBadGateway},
		{errors.New("dial tcp: refused"), fiber.StatusBadGateway},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "%v", tc.err)
	}
	assert.Equal(t, "injected failure", errorMessage(upstream))
}

func TestLoginAndRegisterStatus(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("GET", "/api/movies/tt1/", http.StatusBadRequest)
	srv.Fail("GET", "/api/movies/tt2/", http.StatusInternalServerError)
	c := apiclient.NewClient(srv.URL)
	_, rejected := c.GetMovie(context.Background(), apiclient.Anonymous, "tt1")
	_, upstream := c.GetMovie(context.Background(), apiclient.Anonymous, "tt2")
	dial := errors.New("dial tcp: refused")

	assert.Equal(t, fiber.StatusUnauthorized, loginStatus(rejected))
	assert.Equal(t, fiber.StatusBadGateway, loginStatus(upstream))
	assert.Equal(t, fiber.StatusBadGateway, loginStatus(dial))
	assert.Equal(t, fiber.StatusServiceUnavailable, loginStatus(context.Canceled))

	assert.Equal(t, fiber.StatusBadRequest, registerStatus(nil))
	assert.Equal(t, fiber.StatusBadRequest, registerStatus(rejected))
	assert.Equal(t, fiber.StatusBadGateway, registerStatus(upstream))
	assert.Equal(t, fiber.StatusBadGateway, registerStatus(dial))
}

func TestRegisterSwagger(t *testing.T) {
	app := fiber.New()
	RegisterSwagger(app, nil, "x")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	app = fiber.New()
	RegisterSwagger(app, []byte("openapi: 3.0.0"), "Movie Discovery")
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

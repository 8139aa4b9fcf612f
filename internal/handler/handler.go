package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/pagination"
	"movie-discovery-frontend/internal/session"
	"movie-discovery-frontend/internal/view"
)

// SessionStore is the session the handlers read and change.
type SessionStore interface {
	view.Session
	view.Authenticator
	Snapshot() session.Snapshot
	Logout(ctx context.Context)
}

// Handler serves the front end's screens and session as JSON.
type Handler struct {
	api      view.API
	sess     SessionStore
	pageSize int
}

// New creates a Handler. A pageSize below 1 uses the default of 12.
func New(api view.API, sess SessionStore, pageSize int) *Handler {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &Handler{api: api, sess: sess, pageSize: pageSize}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-discovery-web",
		"session": h.sess.Snapshot().State,
	})
}

// statusFor maps an action error to the status returned to the browser.
// Rejections by the remote service keep their 4xx code; anything else from
// upstream is a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, view.ErrSignInRequired):
		return fiber.StatusUnauthorized
	case errors.Is(err, view.ErrInvalidRating), errors.Is(err, view.ErrPasswordForm):
		return fiber.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable
	}
	if code := apiclient.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return fiber.StatusBadGateway
}

func errorMessage(err error) string {
	if msg := apiclient.Detail(err); msg != "" {
		return msg
	}
	return err.Error()
}

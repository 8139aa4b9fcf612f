package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/validation"
	"movie-discovery-frontend/internal/view"
)

// RegisterBody is the request body for POST /api/session/register.
type RegisterBody struct {
	models.RegisterRequest
	ConfirmPassword string `json:"confirm_password"`
}

// GetSession returns the current session state and user.
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} session.Snapshot
// @Router /api/session [get]
func (h *Handler) GetSession(c fiber.Ctx) error {
	return c.JSON(h.sess.Snapshot())
}

// Login signs in and persists the token.
// @Summary Log in
// @Tags session
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} session.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/session/login [post]
func (h *Handler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	form := view.NewLoginForm(h.sess)
	defer form.Unmount()
	if !form.Submit(c.Context(), req.Username, req.Password) {
		return c.Status(loginStatus(form.Err())).JSON(ErrorResponse{Error: form.State().Error})
	}
	return c.JSON(h.sess.Snapshot())
}

// Register creates an account without signing in.
// @Summary Register
// @Tags session
// @Accept json
// @Produce json
// @Param body body RegisterBody true "Account"
// @Success 201 {object} view.FormState
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/session/register [post]
func (h *Handler) Register(c fiber.Ctx) error {
	var req RegisterBody
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	form := view.NewRegisterForm(h.sess)
	defer form.Unmount()
	if !form.Submit(c.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword) {
		return c.Status(registerStatus(form.Err())).JSON(ErrorResponse{Error: form.State().Error})
	}
	return c.Status(fiber.StatusCreated).JSON(form.State())
}

// Logout forgets the session. It always succeeds.
// @Summary Log out
// @Tags session
// @Produce json
// @Success 200 {object} session.Snapshot
// @Router /api/session/logout [post]
func (h *Handler) Logout(c fiber.Ctx) error {
	h.sess.Logout(c.Context())
	slog.Debug("session cleared by request", "ip", c.IP())
	return c.JSON(h.sess.Snapshot())
}

// loginStatus answers a rejected login with 401 and an unreachable or
// failing service with 5xx.
func loginStatus(err error) int {
	if code := apiclient.StatusCode(err); code >= 400 && code < 500 {
		return fiber.StatusUnauthorized
	}
	return statusFor(err)
}

func registerStatus(err error) int {
	if err == nil {
		return fiber.StatusBadRequest
	}
	if code := apiclient.StatusCode(err); code >= 400 && code < 500 {
		return fiber.StatusBadRequest
	}
	return statusFor(err)
}

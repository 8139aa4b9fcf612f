package models

// LoginRequest is the request body for POST /api/auth/login/.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest is the request body for POST /api/auth/register/.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RateRequest is the request body for POST /api/movies/{id}/rate/.
type RateRequest struct {
	Rating float64 `json:"rating" validate:"gte=0,lte=10"`
}

// Membership actions for the watchlist and favorites endpoints.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// MembershipRequest toggles a movie in the watchlist or favorites.
type MembershipRequest struct {
	Action string `json:"action" validate:"required,oneof=add remove"`
}

// ChangePasswordRequest is the request body for POST /api/user/change-password/.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

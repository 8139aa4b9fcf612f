package view

import (
	"context"
	"strings"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/validation"
)

// Auth form messages.
const (
	MsgLoginFields      = "Please enter your username and password"
	MsgLoginFailed      = "Login failed. Please check your credentials."
	MsgRegisterFields   = "Please fill in all fields"
	MsgRegisterMismatch = "Passwords do not match"
	MsgRegisterFailed   = "Registration failed. Please try again."
	MsgRegistered       = "Registration successful! Please log in."
)

// Authenticator is the write side of the session store.
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password string) error
}

// FormState is what the login and registration forms render.
type FormState struct {
	Submitting bool   `json:"submitting"`
	Error      string `json:"error,omitempty"`
	Success    string `json:"success,omitempty"`
}

// LoginForm signs a user in through the session store.
type LoginForm struct {
	base
	auth  Authenticator
	state FormState
	err   error
}

// NewLoginForm creates the login form.
func NewLoginForm(auth Authenticator) *LoginForm {
	return &LoginForm{base: newBase(), auth: auth}
}

// Submit reports whether the login succeeded.
func (f *LoginForm) Submit(ctx context.Context, username, password string) bool {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		f.apply(func() { f.state, f.err = FormState{Error: MsgLoginFields}, nil })
		return false
	}

	ctx, cancel := f.bind(ctx)
	defer cancel()
	f.apply(func() { f.state = FormState{Submitting: true} })

	err := f.auth.Login(ctx, username, password)
	f.apply(func() {
		f.err = err
		f.state.Submitting = false
		if err != nil {
			f.state.Error = failureText(err, MsgLoginFailed)
		}
	})
	return err == nil
}

// State returns a copy of the current state.
func (f *LoginForm) State() FormState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Err returns the session store's error from the last submit. It is nil
// when the form itself rejected the input.
func (f *LoginForm) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// RegisterForm creates an account. It does not sign the user in.
type RegisterForm struct {
	base
	auth  Authenticator
	state FormState
	err   error
}

// NewRegisterForm creates the registration form.
func NewRegisterForm(auth Authenticator) *RegisterForm {
	return &RegisterForm{base: newBase(), auth: auth}
}

// Submit reports whether the account was created.
func (f *RegisterForm) Submit(ctx context.Context, username, email, password, confirm string) bool {
	req := models.RegisterRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if req.Username == "" || req.Email == "" || password == "" || confirm == "" {
		f.apply(func() { f.state, f.err = FormState{Error: MsgRegisterFields}, nil })
		return false
	}
	if password != confirm {
		f.apply(func() { f.state, f.err = FormState{Error: MsgRegisterMismatch}, nil })
		return false
	}
	if err := validation.Struct(req); err != nil {
		f.apply(func() { f.state, f.err = FormState{Error: err.Error()}, nil })
		return false
	}

	ctx, cancel := f.bind(ctx)
	defer cancel()
	f.apply(func() { f.state = FormState{Submitting: true} })

	err := f.auth.Register(ctx, req.Username, req.Email, req.Password)
	f.apply(func() {
		f.err = err
		f.state.Submitting = false
		if err != nil {
			f.state.Error = failureText(err, MsgRegisterFailed)
			return
		}
		f.state.Success = MsgRegistered
	})
	return err == nil
}

// State returns a copy of the current state.
func (f *RegisterForm) State() FormState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Err returns the session store's error from the last submit.
func (f *RegisterForm) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// failureText prefers the remote service's own message.
func failureText(err error, fallback string) string {
	if msg := apiclient.Detail(err); msg != "" {
		return msg
	}
	return fallback
}

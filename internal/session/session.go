// Package session holds who is signed in to the front end.
//
// A Session is the single source of truth for the current user and bearer
// token. Views read it and hand it to the API client as Credentials; only
// Initialize, Login and Logout change it. The token and the user are always
// set and cleared together, under the session lock, together with the
// persisted copy of the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"movie-discovery-frontend/internal/models"
	"movie-discovery-frontend/internal/tokenstore"
)

// State is the resolution state of a session.
type State int

const (
	// StateResolving means Initialize has not finished yet.
	StateResolving State = iota
	// StateAnonymous means nobody is signed in.
	StateAnonymous
	// StateAuthenticated means a token and its user are held.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Authenticator is the part of the remote API the session depends on.
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

// ErrAlreadyInitialized is returned when Initialize runs twice.
var ErrAlreadyInitialized = errors.New("session: already initialized")

// Session is the process-wide authentication state.
type Session struct {
	store tokenstore.Store
	auth  Authenticator

	mu    sync.RWMutex
	state State
	user  *models.User
	token string
	// gen increments on every Login/Logout so a slow Initialize cannot
	// overwrite a newer decision.
	gen     uint64
	started bool

	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a session in the resolving state.
func New(store tokenstore.Store, auth Authenticator) *Session {
	return &Session{
		store: store,
		auth:  auth,
		state: StateResolving,
		ready: make(chan struct{}),
	}
}

// Initialize restores the persisted token, if any, and validates it by
// fetching the current user. Any failure silently leaves the session
// anonymous and removes the stored token.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.started = true
	if s.state != StateResolving {
		// a Login or Logout already decided the session
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	s.mu.Unlock()

	defer s.markReady()

	token, err := s.store.Load(ctx)
	if err != nil {
		slog.Warn("could not read persisted token", "error", err)
		s.resolveAnonymous(ctx, gen, false)
		return nil
	}
	if token == "" {
		s.resolveAnonymous(ctx, gen, false)
		return nil
	}

	user, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		slog.Info("persisted token rejected, signing out", "error", err)
		s.resolveAnonymous(ctx, gen, true)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		slog.Debug("discarding stale session restore")
		return nil
	}
	s.state = StateAuthenticated
	s.token = token
	s.user = user
	slog.Info("session restored", "username", user.Username)
	return nil
}

func (s *Session) resolveAnonymous(ctx context.Context, gen uint64, clearStored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	if clearStored {
		if err := s.store.Clear(ctx); err != nil {
			slog.Warn("could not clear persisted token", "error", err)
		}
	}
	s.setAnonymousLocked()
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once the session has left the resolving state.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the session has resolved or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login authenticates with the remote service. On failure the previous
// session is left untouched.
func (s *Session) Login(ctx context.Context, username, password string) error {
	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		slog.Warn("login failed", "username", username, "error", err)
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, resp.Token); err != nil {
		slog.Error("could not persist token", "error", err)
		return fmt.Errorf("login: persist token: %w", err)
	}
	user := resp.User
	s.gen++
	s.state = StateAuthenticated
	s.token = resp.Token
	s.user = &user
	s.markReady()

	slog.Info("logged in", "username", user.Username)
	return nil
}

// Register creates an account. It does not sign the caller in.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	err := s.auth.Register(ctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		slog.Warn("registration failed", "username", username, "error", err)
		return fmt.Errorf("register: %w", err)
	}
	slog.Info("registered", "username", username)
	return nil
}

// Logout forgets the token and the user. It cannot fail; a persisted token
// that cannot be removed is logged.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		slog.Error("could not clear persisted token", "error", err)
	}
	s.gen++
	s.setAnonymousLocked()
	s.markReady()
	slog.Info("logged out")
}

func (s *Session) setAnonymousLocked() {
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
}

// State returns the current resolution state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token implements apiclient.Credentials. It is empty unless authenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Snapshot is a consistent read of the session.
type Snapshot struct {
	State State        `json:"state"`
	User  *models.User `json:"user"`
}

// Snapshot returns state and user read under one lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{State: s.state, User: s.user.Clone()}
}

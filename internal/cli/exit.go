package cli

import (
	"errors"
	"fmt"

	"movie-discovery-frontend/internal/apiclient"
	"movie-discovery-frontend/internal/view"
)

// Process exit codes.
const (
	exitFailure  = 1
	exitUsage    = 2
	exitSignIn   = 3
	exitNotFound = 4
)

// ExitError is an error that carries a specific process exit code.
// Cobra's RunE returns this to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// actionError turns a failed view action into an ExitError.
func actionError(err error) error {
	switch {
	case errors.Is(err, view.ErrSignInRequired):
		return exitError(exitSignIn, "not logged in: run `moviectl login <username>` first")
	case errors.Is(err, view.ErrInvalidRating), errors.Is(err, view.ErrPasswordForm):
		return exitError(exitUsage, "%v", err)
	case apiclient.IsNotFound(err):
		return exitError(exitNotFound, "not found: %s", failure(err))
	}
	return exitError(exitFailure, "%s", failure(err))
}

func failure(err error) string {
	if msg := apiclient.Detail(err); msg != "" {
		return msg
	}
	return err.Error()
}

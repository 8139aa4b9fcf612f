package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Readier exposes when the session has finished resolving.
type Readier interface {
	Ready() <-chan struct{}
}

// Authenticated reports whether somebody is signed in.
type Authenticated interface {
	IsAuthenticated() bool
}

var publicPrefixes = []string{"/health", "/swagger"}

func isPublic(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AwaitSession holds requests until the persisted session has been restored,
// so no screen renders as anonymous for a user who is about to be signed in.
// After wait it answers 503. Public paths (health, swagger) are not held.
func AwaitSession(sess Readier, wait time.Duration) fiber.Handler {
	return func(c fiber.Ctx) error {
		if isPublic(c.Path()) {
			return c.Next()
		}

		select {
		case <-sess.Ready():
			return c.Next()
		default:
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-sess.Ready():
			return c.Next()
		case <-timer.C:
			c.Set("Retry-After", "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "session is still being restored",
			})
		case <-c.Context().Done():
			return c.Context().Err()
		}
	}
}

// RequireSession rejects requests from anonymous users with 401.
func RequireSession(sess Authenticated) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !sess.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "sign in required",
			})
		}
		return c.Next()
	}
}

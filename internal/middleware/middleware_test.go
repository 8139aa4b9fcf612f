package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	ready  chan struct{}
	authed atomic.Bool
}

func (f *fakeSession) Ready() <-chan struct{} { return f.ready }
func (f *fakeSession) IsAuthenticated() bool  { return f.authed.Load() }

func ok(c fiber.Ctx) error { return c.SendString("ok") }

func TestAwaitSession(t *testing.T) {
	sess := &fakeSession{ready: make(chan struct{})}
	app := fiber.New()
	app.Use(AwaitSession(sess, 50*time.Millisecond))
	app.Get("/health", ok)
	app.Get("/views/home", ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/views/home", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	close(sess.ready)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/views/home", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAwaitSession_ReleasesWhenResolved(t *testing.T) {
	sess := &fakeSession{ready: make(chan struct{})}
	app := fiber.New()
	app.Use(AwaitSession(sess, 500*time.Millisecond))
	app.Get("/views/home", ok)

	time.AfterFunc(20*time.Millisecond, func() { close(sess.ready) })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/views/home", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireSession(t *testing.T) {
	sess := &fakeSession{}
	app := fiber.New()
	app.Post("/views/movies/:id/watchlist", RequireSession(sess), ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/views/movies/tt1/watchlist", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	sess.authed.Store(true)
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/views/movies/tt1/watchlist", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := fiber.New()
	app.Post("/api/session/login", NewRateLimiter(rdb, "login", 2, 60).Handler(), ok)

	post := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader("{}"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	first := post()
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "2", first.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header.Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, post().StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, post().StatusCode)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "ratelimit:login:"))
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestRateLimiter_FailOpen(t *testing.T) {
	app := fiber.New()
	app.Post("/login", NewRateLimiter(nil, "login", 1, 60).Handler(), ok)
	for range 3 {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	app = fiber.New()
	app.Post("/login", NewRateLimiter(rdb, "login", 1, 60).Handler(), ok)
	for range 2 {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestSameOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(SameOrigin([]string{"http://localhost:5173"}))
	app.Post("/views/movies/:id/watchlist", ok)

	send := func(origin string) int {
		req := httptest.NewRequest(http.MethodPost, "/views/movies/tt1/watchlist", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, send(""))
	assert.Equal(t, http.StatusOK, send("http://example.com"))
	assert.Equal(t, http.StatusOK, send("http://localhost:5173"))
	assert.Equal(t, http.StatusForbidden, send("http://evil.example"))
	assert.Equal(t, http.StatusForbidden, send("null"))
}

package app

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberRecover "github.com/gofiber/fiber/v3/middleware/recover"

	"movie-discovery-frontend/internal/handler"
	"movie-discovery-frontend/internal/middleware"
	"movie-discovery-frontend/internal/proxy"
)

// SessionWait bounds how long a request waits for the session to resolve.
const SessionWait = 5 * time.Second

// WebOptions tune NewWebApp.
type WebOptions struct {
	Swagger     []byte
	SessionWait time.Duration
	// Quiet drops the request logger.
	Quiet bool
}

// NewWebApp builds the HTTP front end over d.
func NewWebApp(d *Deps, opts WebOptions) *fiber.App {
	if opts.SessionWait <= 0 {
		opts.SessionWait = SessionWait
	}

	app := fiber.New(fiber.Config{
		AppName:      "movie-discovery-web",
		ServerHeader: "movie-discovery-web",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	app.Use(fiberRecover.New())
	if !opts.Quiet {
		app.Use(logger.New())
	}
	app.Use(middleware.SameOrigin(d.Config.AllowOrigins))
	if len(d.Config.AllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{AllowOrigins: d.Config.AllowOrigins}))
	}

	h := handler.New(d.Client, d.Session, d.Config.PageSize)
	handler.RegisterSwagger(app, opts.Swagger, "Movie Discovery - Swagger UI")
	app.Get("/health", h.Health)

	app.Use(middleware.AwaitSession(d.Session, opts.SessionWait))
	signedIn := middleware.RequireSession(d.Session)
	limit := d.Config.RateLimit
	loginThrottle := middleware.NewRateLimiter(d.Redis, "login", limit.Max, limit.WindowSeconds)
	registerThrottle := middleware.NewRateLimiter(d.Redis, "register", limit.Max, limit.WindowSeconds)

	sess := app.Group("/api/session")
	sess.Get("/", h.GetSession)
	sess.Post("/login", loginThrottle.Handler(), h.Login)
	sess.Post("/register", registerThrottle.Handler(), h.Register)
	sess.Post("/logout", h.Logout)

	views := app.Group("/views")
	views.Get("/home", h.Home)
	views.Get("/movies/:id", h.MovieDetail)
	views.Post("/movies/:id/rating", signedIn, h.RateMovie)
	views.Post("/movies/:id/watchlist", signedIn, h.ToggleWatchlist)
	views.Post("/movies/:id/favorite", signedIn, h.ToggleFavorite)
	views.Get("/search", h.Search)
	views.Get("/recommendations", h.Recommendations)
	views.Get("/profile", h.Profile)
	views.Delete("/profile/favorites/:id", signedIn, h.RemoveFavorite)
	views.Delete("/profile/watchlist/:id", signedIn, h.RemoveFromWatchlist)
	views.Post("/profile/password", signedIn, h.ChangePassword)

	app.All("/api/*", proxy.New(d.Config.API.BaseURL, d.Session, d.Config.API.Timeout).Handler())

	return app
}

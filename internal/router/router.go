package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/sawirah/municipality-web/internal/config"
	"github.com/sawirah/municipality-web/internal/handler"    // import the handlers that implement business logic
	"github.com/sawirah/municipality-web/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/sawirah/municipality-web/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Credential operations live under /api/auth and are
// rate limited per client IP; protected endpoints live under /api and
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cfg config.Config, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Unauthenticated session operations. Login and refresh carry the
	// brute-force limiter; logout is harmless and register is guarded by
	// the uniqueness constraint.
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login, limiter)
	// Rotates the refresh token read from the RefreshToken cookie.
	g.POST("/refresh-token", a.Refresh, limiter)
	// Best effort: revokes the cookie's token when known and always clears
	// the cookie.
	g.POST("/logout", a.Logout)

	// Routes below require a valid access token. The JWT middleware parses
	// and verifies the bearer token and stores the claims in context.
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience))
	api.GET("/me", a.Me, middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	// Administrative session management. Disabling an account revokes all
	// of its refresh tokens.
	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/users/:id/disable", a.DisableUser)
}

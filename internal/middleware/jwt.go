package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"              // HTTP status codes for responses
	"strings"               // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/sawirah/municipality-web/internal/auth"
	"github.com/sawirah/municipality-web/internal/model"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects its claims into the request context. Validation covers the
// HS256 signature, expiry, issuer and audience; a token that fails any of
// these is rejected with the same 401 regardless of the reason. Handlers
// behind this middleware read the identity via c.Get("user_id"),
// c.Get("role"), c.Get("name") and c.Get("email").
func JWTAuth(secret, issuer, audience string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.ParseAccessToken(secret, issuer, audience, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// The role claim is parsed into the closed Role type here, once;
			// downstream middleware and handlers compare Role values.
			c.Set("user_id", claims.Subject)
			c.Set("role", model.ParseRole(claims.Role))
			c.Set("name", claims.Name)
			c.Set("email", claims.Email)
			return next(c)
		}
	}
}

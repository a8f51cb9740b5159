package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sawirah/municipality-web/internal/auth"
	"github.com/sawirah/municipality-web/internal/config"
	"github.com/sawirah/municipality-web/internal/model"
	"github.com/sawirah/municipality-web/internal/repository"
)

// UserDirectory is the account-store surface the auth endpoints need.
// *repository.UserRepo satisfies it.
type UserDirectory interface {
	Create(ctx context.Context, email, phone, firstName, lastName, password string, role model.Role, cost int) (string, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	Disable(ctx context.Context, id string) error
}

// AuthHandler bundles dependencies for the auth endpoints. It owns the
// cookie handling: the session issuer only ever sees the raw token string
// and returns a cookie directive for the handler to apply.
type AuthHandler struct {
	Cfg      config.Config
	Sessions *auth.Issuer
	Users    UserDirectory
}

func NewAuthHandler(cfg config.Config, sessions *auth.Issuer, users UserDirectory) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Sessions: sessions, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role"` // User | Admin, anything else falls back to User
}
type loginReq struct {
	Identifier string `json:"identifier"` // email or phone
	Password   string `json:"password"`
}

// sessionResp is the identity summary returned by login and refresh. The
// refresh token itself travels only in the cookie, never in this body.
type sessionResp struct {
	AccessToken  string `json:"accessToken"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto"`
}

// Register: create an account. No tokens are issued; the client logs in
// afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" || req.Phone == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/phone/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	role := model.ParseRole(req.Role)
	if _, err := h.Users.Create(ctx, req.Email, req.Phone, req.FirstName, req.LastName, req.Password, role, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email or phone already exists"})
		}
		log.Printf("auth: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered successfully"})
}

// Login: verify credentials, set the refresh cookie and return the
// identity summary with a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Sessions.Login(ctx, req.Identifier, req.Password, clientInfo(c))
	if err != nil {
		if isAuthFailure(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Printf("auth: login failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	applyCookie(c, s.Cookie)
	return c.JSON(http.StatusOK, sessionResponse(s))
}

// Refresh: rotate the refresh token from the cookie. All token failures
// collapse into one 401 body; the concrete reason is logged only, so the
// endpoint is not an oracle for token state.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Sessions.Refresh(ctx, refreshCookie(c), clientInfo(c))
	if err != nil {
		if isAuthFailure(err) {
			log.Printf("auth: refresh rejected: %v", err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		log.Printf("auth: refresh failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	applyCookie(c, s.Cookie)
	return c.JSON(http.StatusOK, sessionResponse(s))
}

// Logout: best effort, never fails. The cookie is cleared whether or not a
// matching ledger row existed.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	applyCookie(c, h.Sessions.Logout(ctx, refreshCookie(c)))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// Me: echo the authenticated claims back (protected route).
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"name":    c.Get("name"),
		"role":    c.Get("role"),
		"email":   c.Get("email"),
	})
}

// DisableUser: admin only. Marks the account inactive and revokes every
// refresh token it owns, so no session of the user survives past the
// access-token window.
func (h *AuthHandler) DisableUser(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("auth: load user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "disable failed"})
	}
	if err := h.Users.Disable(ctx, id); err != nil {
		log.Printf("auth: disable user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "disable failed"})
	}
	if err := h.Sessions.RevokeUserSessions(ctx, id, clientInfo(c)); err != nil {
		log.Printf("auth: revoke sessions failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "disable failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- helpers -----

func sessionResponse(s auth.Session) sessionResp {
	return sessionResp{
		AccessToken:  s.AccessToken,
		FullName:     s.FullName,
		Role:         s.Role.String(),
		Email:        s.Email,
		ProfilePhoto: s.ProfilePhoto,
	}
}

// refreshCookie pulls the raw refresh token from the request cookie, empty
// string when absent.
func refreshCookie(c echo.Context) string {
	ck, err := c.Cookie(auth.CookieName)
	if err != nil || ck == nil {
		return ""
	}
	return ck.Value
}

// applyCookie turns the issuer's directive into a Set-Cookie header.
// HttpOnly+Secure+SameSite=None: the token must survive cross-site frontend
// calls but stay invisible to scripts.
func applyCookie(c echo.Context, ck auth.Cookie) {
	out := &http.Cookie{
		Name:     ck.Name,
		Value:    ck.Value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Expires:  ck.Expires,
	}
	if ck.Delete {
		out.Value = ""
		out.MaxAge = -1
		out.Expires = time.Unix(0, 0)
	}
	c.SetCookie(out)
}

func clientInfo(c echo.Context) auth.ClientInfo {
	return auth.ClientInfo{IP: c.RealIP(), UserAgent: c.Request().UserAgent()}
}

func isAuthFailure(err error) bool {
	return errors.Is(err, auth.ErrInvalidCredentials) ||
		errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredOrRevoked) ||
		errors.Is(err, auth.ErrReuseDetected)
}

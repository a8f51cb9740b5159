package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sawirah/municipality-web/internal/config"
	"github.com/sawirah/municipality-web/internal/model"
	"github.com/sawirah/municipality-web/internal/repository"
	"github.com/sawirah/municipality-web/internal/utils"
)

// Sentinel errors of the session state machine. The transport layer folds
// all of them into a single unauthorized response; the distinction exists
// for logging and auditing only.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("refresh token missing")
	ErrInvalidToken       = errors.New("refresh token unknown")
	ErrExpiredOrRevoked   = errors.New("refresh token expired or revoked")
	ErrReuseDetected      = errors.New("refresh token reuse detected")
)

// UserStore is the credential-store collaborator: user lookup by either
// login key or by id. Password verification happens against the returned
// record's hash.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByPhone(ctx context.Context, phone string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// TokenLedger is the persisted record of issued refresh tokens. Rotate must
// be atomic: of two concurrent rotations of the same token exactly one may
// succeed, the other must return repository.ErrTokenRotated.
type TokenLedger interface {
	FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	Create(ctx context.Context, t *model.RefreshToken) error
	Rotate(ctx context.Context, oldHash string, replacement *model.RefreshToken) error
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// AuditEvent records a security-relevant incident for the audit trail.
type AuditEvent struct {
	Kind      string    // "reuse_detected" | "sessions_revoked"
	UserID    string    // owner of the affected tokens
	IP        string    // client address that triggered the event
	UserAgent string    // client user agent that triggered the event
	At        time.Time // when the incident happened
}

// Auditor receives security events. Implementations must be best-effort;
// the issuer never fails an operation because auditing did.
type Auditor interface {
	Notify(ctx context.Context, ev AuditEvent)
}

// ClientInfo is the audit metadata of the calling client. It is recorded
// on issued tokens and attached to audit events; it never participates in
// an authorization decision.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// Cookie is the outgoing refresh-token cookie directive. The issuer never
// touches the HTTP layer itself; handlers apply this to the response.
// Delete set means the cookie must be cleared regardless of Value.
type Cookie struct {
	Name    string
	Value   string
	Expires time.Time
	Delete  bool
}

// CookieName is the cookie the refresh token travels in.
const CookieName = "RefreshToken"

// Session is the result of a successful login or refresh: the identity
// summary returned in the response body plus the cookie directive. The
// refresh token value appears only inside Cookie, never in the body.
type Session struct {
	AccessToken  string
	ExpiresAt    time.Time
	FullName     string
	Role         model.Role
	Email        string
	ProfilePhoto string
	Cookie       Cookie
}

// Issuer orchestrates login, refresh and logout over the credential store
// and the token ledger. All request state (cookie value, client metadata)
// comes in as explicit arguments and all side effects on the response come
// back out as values.
type Issuer struct {
	users   UserStore
	tokens  TokenLedger
	auditor Auditor
	cfg     config.Config
	now     func() time.Time
}

// NewIssuer wires an Issuer. auditor may be nil when no audit trail is
// configured.
func NewIssuer(cfg config.Config, users UserStore, tokens TokenLedger, auditor Auditor) *Issuer {
	return &Issuer{
		users:   users,
		tokens:  tokens,
		auditor: auditor,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the issuer's clock. Tests use this to pin time.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Login verifies an email-or-phone identifier and password, persists a new
// refresh token and mints an access token. Every verification failure maps
// to the same ErrInvalidCredentials so the response never reveals which
// check failed.
func (i *Issuer) Login(ctx context.Context, identifier, password string, client ClientInfo) (Session, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		u   model.User
		err error
	)
	// An "@" anywhere makes it an email, otherwise it is a phone number.
	if strings.Contains(identifier, "@") {
		u, err = i.users.GetByEmail(ctx, identifier)
	} else {
		u, err = i.users.GetByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a comparison anyway so an unknown identifier costs the
			// same as a wrong password.
			utils.BurnPasswordCheck(password)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	// The password check runs before the active check for the same reason:
	// every failing login pays exactly one bcrypt comparison.
	if !utils.VerifyPassword(u.PasswordHash, password) || !u.IsActive {
		return Session{}, ErrInvalidCredentials
	}

	return i.issueSession(ctx, u, client)
}

// Refresh exchanges a refresh token read from the request cookie for a new
// access/refresh pair, rotating the presented token. Presenting an
// already-used token is treated as theft: depending on policy every active
// token of the owner is revoked, and the call fails with ErrReuseDetected.
func (i *Issuer) Refresh(ctx context.Context, rawToken string, client ClientInfo) (Session, error) {
	if strings.TrimSpace(rawToken) == "" {
		return Session{}, ErrMissingToken
	}
	hash := HashToken(rawToken)

	t, err := i.tokens.FindByHash(ctx, hash)
	if err != nil {
		if repository.IsNotFound(err) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, fmt.Errorf("find token: %w", err)
	}

	now := i.now()

	// The used flag is checked before revocation and expiry: rotation stamps
	// revoked_at on the old row, so a rotated token presented again must
	// still read as reuse, not as an idempotent revoked failure.
	if t.Used {
		return Session{}, i.handleReuse(ctx, t.UserID, client)
	}
	if t.RevokedAt != nil || now.After(t.ExpiresAt) {
		return Session{}, ErrExpiredOrRevoked
	}

	u, err := i.users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !u.IsActive {
		// A disabled account keeps no sessions.
		return Session{}, ErrExpiredOrRevoked
	}

	raw, replacement, err := i.newRefreshRecord(u.ID, client)
	if err != nil {
		return Session{}, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := i.tokens.Rotate(ctx, hash, replacement); err != nil {
		if errors.Is(err, repository.ErrTokenRotated) {
			// Lost the race against a concurrent refresh of the same token.
			// By then the token is used, so this presentation is a reuse.
			return Session{}, i.handleReuse(ctx, t.UserID, client)
		}
		return Session{}, fmt.Errorf("rotate token: %w", err)
	}

	access, err := NewAccessToken(i.cfg.JWTSecret, i.cfg.JWTIssuer, i.cfg.JWTAudience, u, i.cfg.AccessTTLMin, i.now())
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}
	return i.session(u, access, raw, replacement.ExpiresAt), nil
}

// Logout revokes the presented token if it exists and always returns a
// delete directive for the cookie. It never fails: a missing, unknown or
// already revoked token logs out just the same.
func (i *Issuer) Logout(ctx context.Context, rawToken string) Cookie {
	if strings.TrimSpace(rawToken) != "" {
		// Best effort; the cookie is cleared either way.
		_ = i.tokens.RevokeByHash(ctx, HashToken(rawToken))
	}
	return Cookie{Name: CookieName, Delete: true}
}

// RevokeUserSessions revokes every active refresh token of a user. Called
// when an administrator disables an account; within the short access-token
// window the user is forced back to login.
func (i *Issuer) RevokeUserSessions(ctx context.Context, userID string, client ClientInfo) error {
	if err := i.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	i.audit(ctx, AuditEvent{Kind: "sessions_revoked", UserID: userID, IP: client.IP, UserAgent: client.UserAgent, At: i.now()})
	return nil
}

// handleReuse applies the configured reuse policy and reports the incident.
// It always returns ErrReuseDetected.
func (i *Issuer) handleReuse(ctx context.Context, userID string, client ClientInfo) error {
	if i.cfg.ReuseRevokeAll {
		// Full session teardown: the token was stolen or replayed, nothing
		// issued to this user can be trusted anymore.
		_ = i.tokens.RevokeAllForUser(ctx, userID)
	}
	i.audit(ctx, AuditEvent{Kind: "reuse_detected", UserID: userID, IP: client.IP, UserAgent: client.UserAgent, At: i.now()})
	return ErrReuseDetected
}

// issueSession persists a fresh refresh token and mints the access token.
// The ledger insert comes first: an access token must never leave the
// server without a persisted renewal path beside it.
func (i *Issuer) issueSession(ctx context.Context, u model.User, client ClientInfo) (Session, error) {
	raw, rec, err := i.newRefreshRecord(u.ID, client)
	if err != nil {
		return Session{}, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := i.tokens.Create(ctx, rec); err != nil {
		return Session{}, fmt.Errorf("save refresh token: %w", err)
	}
	access, err := NewAccessToken(i.cfg.JWTSecret, i.cfg.JWTIssuer, i.cfg.JWTAudience, u, i.cfg.AccessTTLMin, i.now())
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}
	return i.session(u, access, raw, rec.ExpiresAt), nil
}

// newRefreshRecord generates a refresh value and the ledger row holding its
// digest. The raw value is returned separately; it exists only long enough
// to be set into the cookie.
func (i *Issuer) newRefreshRecord(userID string, client ClientInfo) (string, *model.RefreshToken, error) {
	raw, err := NewRefreshValue()
	if err != nil {
		return "", nil, err
	}
	rec := &model.RefreshToken{
		UserID:    userID,
		TokenHash: HashToken(raw),
		ExpiresAt: i.now().Add(time.Duration(i.cfg.RefreshTTLDays) * 24 * time.Hour),
		CreatedIP: client.IP,
		UserAgent: client.UserAgent,
	}
	return raw, rec, nil
}

func (i *Issuer) session(u model.User, access AccessToken, rawRefresh string, refreshExp time.Time) Session {
	return Session{
		AccessToken:  access.Token,
		ExpiresAt:    access.Exp,
		FullName:     u.FullName(),
		Role:         u.Role,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		Cookie: Cookie{
			Name:    CookieName,
			Value:   rawRefresh,
			Expires: refreshExp,
		},
	}
}

func (i *Issuer) audit(ctx context.Context, ev AuditEvent) {
	if i.auditor == nil {
		return
	}
	i.auditor.Notify(ctx, ev)
}

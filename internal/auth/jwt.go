package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/sawirah/municipality-web/internal/model"
)

// Claims is the payload of an access token. Besides the registered claims
// (subject, issuer, audience, expiry, issued-at) it carries the display
// name, email and role so the frontend never has to look the user up again
// within the token's window.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AccessToken is a signed JWT string along with its expiry. Access tokens
// are short-lived, stateless and sent in the Authorization header; they are
// never persisted and never revocable individually.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The issuer and
// audience come from configuration and are verified again on parse. ttlMin
// is the token lifetime in minutes; now is injected so tests can pin time.
func NewAccessToken(secret, issuer, audience string, u model.User, ttlMin int, now time.Time) (AccessToken, error) {
	exp := now.UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := Claims{
		Name:  u.FullName(),
		Email: u.Email,
		Role:  u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now.UTC()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature, algorithm, expiry, issuer and
// audience of a serialized access token and returns its claims. Anything
// short of a fully valid token is an error; callers translate every failure
// into the same unauthorized response.
func ParseAccessToken(secret, issuer, audience, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

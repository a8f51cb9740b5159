package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawirah/municipality-web/internal/model"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	u := model.User{
		ID:        "u-42",
		Email:     "a@x.com",
		FirstName: "Aya",
		LastName:  "Salem",
		Role:      model.RoleAdmin,
	}
	now := time.Now().UTC()

	tok, err := NewAccessToken("secret", "iss", "aud", u, 15, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(15*time.Minute), tok.Exp, time.Second)

	claims, err := ParseAccessToken("secret", "iss", "aud", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.Subject)
	assert.Equal(t, "Aya Salem", claims.Name)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, model.ParseRole(claims.Role))
}

func TestAccessToken_RejectsTampering(t *testing.T) {
	u := model.User{ID: "u-42", Role: model.RoleUser}
	now := time.Now().UTC()

	tok, err := NewAccessToken("secret", "iss", "aud", u, 15, now)
	require.NoError(t, err)

	cases := []struct {
		name                  string
		secret, iss, aud, raw string
	}{
		{"wrong secret", "other", "iss", "aud", tok.Token},
		{"wrong issuer", "secret", "someone-else", "aud", tok.Token},
		{"wrong audience", "secret", "iss", "someone-else", tok.Token},
		{"garbage token", "secret", "iss", "aud", "not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAccessToken(tc.secret, tc.iss, tc.aud, tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestAccessToken_Expiry(t *testing.T) {
	u := model.User{ID: "u-42", Role: model.RoleUser}
	// Issued long enough ago that the 15 minute window has passed.
	past := time.Now().UTC().Add(-time.Hour)

	tok, err := NewAccessToken("secret", "iss", "aud", u, 15, past)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", "iss", "aud", tok.Token)
	assert.Error(t, err)
}

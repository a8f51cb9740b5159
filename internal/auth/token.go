package auth

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for refresh tokens
	"encoding/base64"
	"encoding/hex"
)

// refreshValueBytes is the entropy of a refresh token value. 32 bytes keeps
// the value comfortably above the 256-bit floor while staying short enough
// for a cookie.
const refreshValueBytes = 32

// NewRefreshValue returns an opaque refresh token value: 32 bytes of
// cryptographically secure random data, base64 encoded. The value is only
// ever seen by the client; the ledger stores its digest.
func NewRefreshValue() (string, error) {
	buf := make([]byte, refreshValueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 digest of a raw refresh token value as a
// hex string. Storing only the digest prevents a leaked ledger from being
// replayed against the refresh endpoint.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

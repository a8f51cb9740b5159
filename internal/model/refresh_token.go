package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table.  Each token
// belongs to a user and carries the state needed for rotation and reuse
// detection.  The plain token value is never stored; only its SHA-256 hash.
//
// Fields:
//  ID         – uuid primary key.
//  UserID     – owner of the token (uuid, non-owning back-reference).
//  TokenHash  – SHA-256 hex digest of the token value, unique across all users.
//  ExpiresAt  – expiration timestamp of the token.
//  Used       – set when the token was exchanged during a refresh; a used
//               token presented again is treated as theft.
//  RevokedAt  – when the token was revoked (nil if still active).
//  ReplacedBy – digest of the token issued in this one's place (nil until
//               rotation; forms a forward audit chain, never a cycle).
//  CreatedIP  – client IP captured at issue time, audit only.
//  UserAgent  – client User-Agent captured at issue time, audit only.
//  CreatedAt  – timestamp of creation.
type RefreshToken struct {
	ID         string     // refresh_tokens.id (uuid)
	UserID     string     // refresh_tokens.user_id
	TokenHash  string     // refresh_tokens.token_hash
	ExpiresAt  time.Time  // refresh_tokens.expires_at
	Used       bool       // refresh_tokens.used
	RevokedAt  *time.Time // refresh_tokens.revoked_at (nullable)
	ReplacedBy *string    // refresh_tokens.replaced_by (nullable)
	CreatedIP  string     // refresh_tokens.created_ip
	UserAgent  string     // refresh_tokens.user_agent
	CreatedAt  time.Time  // refresh_tokens.created_at
}

// Active reports whether the token could still authorize a refresh at the
// given instant: never used, never revoked, not past its expiry.
func (t RefreshToken) Active(now time.Time) bool {
	return !t.Used && t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

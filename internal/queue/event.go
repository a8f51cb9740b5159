// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditEvent is published when something security-relevant happens to a
// user's sessions: a refresh token was replayed, or every session of a user
// was revoked. It carries enough for downstream consumers to log or alert
// without querying the primary database.
type AuditEvent struct {
	Kind      string `json:"kind"`       // reuse_detected | sessions_revoked
	UserID    string `json:"user_id"`    // owner of the affected tokens
	IP        string `json:"ip"`         // client address that triggered the event
	UserAgent string `json:"user_agent"` // client user agent that triggered the event
	At        string `json:"at"`         // RFC3339 timestamp of the incident
}

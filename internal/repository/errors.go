// Package repository defines error types that are reused across the
// repositories. These sentinel values allow higher layers such as the
// session issuer and handlers to distinguish between failure scenarios
// without string matching.
package repository

import "errors"

// ErrAccountExists is returned when a registration collides with an
// existing email or phone number. Handlers should translate this into
// an HTTP 409 response.
var ErrAccountExists = errors.New("email or phone already exists")

// ErrTokenRotated is returned by TokenRepo.Rotate when the presented
// token was no longer in the unused, unrevoked state by the time the
// update ran. Exactly one of two concurrent rotations of the same token
// observes this; callers treat it as a reuse signal.
var ErrTokenRotated = errors.New("token already rotated")

// Package sessions declares the token registry contract: server-side records
// of issued session tokens. A signed token that has no registry row (forged,
// revoked, or recorded for a different user) must fail authentication.
package sessions

import (
	"context"
	"time"
)

// Repository defines operations over the token registry.
type Repository interface {
	// Create appends a registry entry for the token. Entries are not
	// deduplicated; a user may hold several concurrent sessions.
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// Exists reports whether a live (unexpired) entry matches both the token
	// string and the user id.
	Exists(ctx context.Context, token string, userID int64) (bool, error)

	// DeleteByToken revokes the entry with the given token string. Deleting a
	// non-existent token is not an error.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired prunes the user's expired entries. Called lazily at login
	// so sessions do not accumulate without bound.
	DeleteExpired(ctx context.Context, userID int64) error
}

package models

import "time"

// SessionToken is a server-side record of an issued session token. A signed
// token is only trusted while a matching row exists for the same user.
type SessionToken struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Package models contains the server-side persistence models.
package models

import "time"

// User is a bank customer record. ID is client-supplied at registration and
// immutable afterwards; username and email are globally unique.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Balance      int64
	Phone        *string
	Role         string
	CreatedAt    time.Time
}

// Package users declares the credential store contract: persistence of bank
// customer records keyed by immutable numeric id and unique username/email.
package users

import (
	"context"

	"github.com/kodbank/kodbank/internal/server/models"
)

// Repository defines operations over user records. Plaintext secrets never
// reach this layer; callers store bcrypt hashes only.
type Repository interface {
	// Create inserts a new user. A username or email collision yields
	// common.ErrorAlreadyExists (detected via the DB unique constraints,
	// never check-then-act).
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given id or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetBalanceByUsername reads the current balance straight from storage so
	// concurrent balance changes are always reflected.
	GetBalanceByUsername(ctx context.Context, username string) (int64, error)
}

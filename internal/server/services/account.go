// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, password login issuing signed
// session tokens, authenticated balance reads, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kodbank/kodbank/internal/common"
	"github.com/kodbank/kodbank/internal/dbx"
	"github.com/kodbank/kodbank/internal/logging"
	"github.com/kodbank/kodbank/internal/server/auth"
	"github.com/kodbank/kodbank/internal/server/config"
	"github.com/kodbank/kodbank/internal/server/models"
	"github.com/kodbank/kodbank/internal/server/repositories/repomanager"
)

const (
	// DefaultBalance is the opening balance of every new account.
	DefaultBalance int64 = 100000

	// DefaultRole is assigned at registration; there is no role management.
	DefaultRole = "customer"

	bcryptCost = 10
)

// AccountService provides the account-related operations:
//   - Register: create users with a hashed secret
//   - Login: verify credentials, mint a session token, record it server-side
//   - Authenticate: validate a presented token (signature, user, registry)
//   - Balance: live balance lookup for an authenticated user
//   - Logout: revoke the server-side session record
type AccountService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

// NewAccountService constructs an AccountService using repositories and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AccountService {
	return &AccountService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger.With("module", "account_service"),
	}
}

// Register creates a new user. The password is hashed with bcrypt before it
// reaches storage; the plaintext is never persisted or logged. Duplicate
// username or email surfaces as common.ErrorAlreadyExists, detected by the
// database uniqueness constraints rather than a pre-check.
func (s *AccountService) Register(ctx context.Context, id int64, username, email, password string, phone *string) error {
	if id <= 0 || username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: missing required fields", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrorInternal
	}

	user := &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Balance:      DefaultBalance,
		Phone:        phone,
		Role:         DefaultRole,
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return common.ErrorInternal
	}

	return nil
}

// Login verifies the credentials and, on success, issues a signed session
// token and records it in the registry. Unknown users and wrong passwords
// both yield common.ErrorUnauthorized so responses cannot be used as a
// username oracle. The bcrypt comparison does not short-circuit on a prefix
// mismatch.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", time.Time{}, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error searching user", "error", err)
		return "", time.Time{}, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, common.ErrorUnauthorized
	}

	token, expiresAt, err := auth.IssueToken(user.Username, user.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		return "", time.Time{}, common.ErrorInternal
	}

	// Lazy eviction of the user's expired sessions, then record the new one.
	// A crash between token issuance and the insert leaves a signed token
	// without a registry row, which simply fails authentication (fails closed).
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Sessions(tx)
		if err := repoTx.DeleteExpired(ctx, user.ID); err != nil {
			return err
		}
		return repoTx.Create(ctx, user.ID, token, expiresAt)
	}); err != nil {
		s.logger.Error(ctx, "error recording session", "error", err)
		return "", time.Time{}, common.ErrorInternal
	}

	return token, expiresAt, nil
}

// Authenticate validates a presented token: signature and expiry first, then
// the subject is resolved to a user, then the registry is consulted for a
// matching (token, user) entry. No storage lookup happens before
// authenticity is established.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	usersRepo := s.repomanager.Users(s.db)
	user, err := usersRepo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error resolving token subject", "error", err)
		return nil, common.ErrorInternal
	}

	exists, err := s.repomanager.Sessions(s.db).Exists(ctx, token, user.ID)
	if err != nil {
		s.logger.Error(ctx, "error checking session registry", "error", err)
		return nil, common.ErrorInternal
	}
	if !exists {
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}

// Balance re-fetches the user's balance by username at call time, so changes
// made after token issuance are reflected immediately.
func (s *AccountService) Balance(ctx context.Context, username string) (int64, error) {
	repo := s.repomanager.Users(s.db)
	balance, err := repo.GetBalanceByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error reading balance", "error", err)
		return 0, common.ErrorInternal
	}
	return balance, nil
}

// Logout revokes the server-side registry entry for the token, so a
// logged-out cookie value cannot be replayed until its natural expiry.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).DeleteByToken(ctx, token); err != nil {
		s.logger.Error(ctx, "error revoking session", "error", err)
		return common.ErrorInternal
	}
	return nil
}

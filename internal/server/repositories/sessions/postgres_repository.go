package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/kodbank/kodbank/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {

	query :=
		`INSERT INTO sessions (token, user_id, expires_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, token, userID, expiresAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, token string, userID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM sessions
		     WHERE token = $1 AND user_id = $2 AND expires_at > now()
		 )`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, token, userID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	query :=
		`DELETE FROM sessions
		 WHERE token = $1
		 `

	_, err := r.db.ExecContext(ctx, query, token)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, userID int64) error {
	query :=
		`DELETE FROM sessions
		 WHERE user_id = $1 AND expires_at <= now()
		 `

	_, err := r.db.ExecContext(ctx, query, userID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

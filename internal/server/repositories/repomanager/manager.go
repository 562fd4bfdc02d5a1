// Package repomanager wires concrete repository implementations to a database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/kodbank/kodbank/internal/dbx"
	"github.com/kodbank/kodbank/internal/server/repositories/sessions"
	"github.com/kodbank/kodbank/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}

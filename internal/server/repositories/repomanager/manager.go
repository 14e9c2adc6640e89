// Package repomanager vends repositories bound to a database handle or a
// transaction, and runs schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/rolandocepedadev/ccat/internal/dbx"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/files"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/refreshtokens"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Files(db dbx.DBTX) files.Repository
}

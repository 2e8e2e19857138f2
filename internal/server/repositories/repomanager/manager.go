package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a given DBTX, so callers
// choose per call whether they run on the pool, a request connection or a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}

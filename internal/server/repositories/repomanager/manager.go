package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/saves"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/shares"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/snapshots"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/tools"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// multi-step flows against either the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Saves(db dbx.DBTX) saves.Repository
	Shares(db dbx.DBTX) shares.Repository
	Tools(db dbx.DBTX) tools.Repository
	Snapshots(db dbx.DBTX) snapshots.Repository
}

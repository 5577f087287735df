package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/zviewer/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/notes"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/pending"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/wallets"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Dialect() dbx.Dialect
	Metadata(db dbx.DBTX) metadata.Repository
	Wallets(db dbx.DBTX) wallets.Repository
	Notes(db dbx.DBTX) notes.Repository
	Ledger(db dbx.DBTX) ledger.Repository
	Pending(db dbx.DBTX) pending.Repository
}

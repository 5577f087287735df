// Package repomanager provides the RepositoryManager of the local store,
// wiring repository constructors to the dialect of the open database and
// running the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/zviewer/internal/client/migrations"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/notes"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/pending"
	"github.com/dmitrijs2005/zviewer/internal/client/repositories/wallets"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewSQLRepositoryManager constructs a RepositoryManager for dialect.
func NewSQLRepositoryManager(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect { return m.dialect }

func (m *SQLRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Wallets(db dbx.DBTX) wallets.Repository {
	return wallets.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return notes.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Ledger(db dbx.DBTX) ledger.Repository {
	return ledger.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Pending(db dbx.DBTX) pending.Repository {
	return pending.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.String()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

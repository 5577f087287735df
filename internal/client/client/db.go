package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/zviewer/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/zviewer/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store is an open, migrated database with its repository manager.
type Store struct {
	DB    *sql.DB
	Repos repomanager.RepositoryManager
}

func (s *Store) Close() error { return s.DB.Close() }

// RunMigrations applies the embedded schema with the manager's dialect.
func RunMigrations(ctx context.Context, db *sql.DB, repos repomanager.RepositoryManager) error {
	return repos.RunMigrations(ctx, db)
}

// OpenDatabase opens dsn with the driver its dialect needs (SQLite for file
// paths, pgx for postgres:// URLs) and brings the schema up to date.
func OpenDatabase(ctx context.Context, dsn string) (*Store, error) {
	dialect := dbx.DialectForDSN(dsn)

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	if dialect == dbx.SQLite {
		// one writer keeps modernc from returning SQLITE_BUSY inside WithTx
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrLocalDataNotAvailable, err)
	}

	repos := repomanager.NewSQLRepositoryManager(dialect)
	if err := RunMigrations(ctx, db, repos); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Store{DB: db, Repos: repos}, nil
}

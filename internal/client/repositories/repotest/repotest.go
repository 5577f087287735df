// Package repotest opens migrated in-memory databases for repository tests.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/zviewer/internal/client/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// OpenSQLite returns a private in-memory SQLite database with the full
// schema applied. It is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	require.NoError(t, err)
	_, err = provider.Up(context.Background())
	require.NoError(t, err)

	return db
}

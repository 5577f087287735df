package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"sqlite untouched", SQLite, "SELECT * FROM notes WHERE id = ?", "SELECT * FROM notes WHERE id = ?"},
		{"postgres numbered", Postgres, "INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
		{"literal kept", Postgres, "SELECT '?' , x FROM t WHERE y = ?", "SELECT '?' , x FROM t WHERE y = $1"},
		{"no placeholders", Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.Rebind(tt.in))
		})
	}
}

func TestDialectForDSN(t *testing.T) {
	assert.Equal(t, Postgres, DialectForDSN("postgres://u:p@localhost/zviewer"))
	assert.Equal(t, Postgres, DialectForDSN("postgresql://localhost/zviewer"))
	assert.Equal(t, SQLite, DialectForDSN("zviewer.db"))
	assert.Equal(t, SQLite, DialectForDSN("file::memory:?cache=shared"))

	assert.Equal(t, "pgx", Postgres.DriverName())
	assert.Equal(t, "sqlite", SQLite.DriverName())
	assert.Equal(t, "postgres", Postgres.String())
	assert.Equal(t, "sqlite3", SQLite.String())
}

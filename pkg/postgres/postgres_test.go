package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Ordered(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)

	require.NotEmpty(t, files)
	assert.Equal(t, "001_create_adopted_rosters.sql", files[0])
	assert.IsNonDecreasing(t, files)
}

func TestPendingMigrations(t *testing.T) {
	files := []string{"001_a.sql", "002_b.sql", "003_c.sql"}

	assert.Equal(t, files, pendingMigrations(files, nil))
	assert.Equal(t, []string{"001_a.sql", "003_c.sql"}, pendingMigrations(files, []string{"002_b.sql"}))
	assert.Empty(t, pendingMigrations(files, []string{"003_c.sql", "001_a.sql", "002_b.sql"}))
}

func TestNewDB_InvalidURL(t *testing.T) {
	_, err := NewDB(context.Background(), "postgres://user@localhost:notaport/db")
	assert.ErrorContains(t, err, "invalid database url")
}

func TestMigrations_CreateAdoptedRosterTable(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, "migrations/001_create_adopted_rosters.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS adopted_roster")
	assert.Contains(t, sql, "UNIQUE (period_key, category)")
	for _, column := range strings.Split(adoptedRosterColumns, ",") {
		assert.Contains(t, sql, strings.TrimSpace(column)+" ", "migration defines %s", column)
	}
}

package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/godilite/studio-insights/internal/repository"
	dbbuilder "github.com/godilite/studio-insights/pkg/database"
)

func setupTestDB(t *testing.T) (*sql.DB, *repository.SnapshotRepository) {
	t.Helper()

	db, err := dbbuilder.New(context.Background(),
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewSnapshotRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return db, repo
}

package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/fmkit/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, table := range []string{"snapshots", "nations", "settings"} {
			var count int
			err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
			require.NoError(t, err, table)
		}
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o600))

		db := sqlite.NewDB(filepath.Join(file, "db.sqlite"))
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("creates missing parent directory", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "nested", "fmkit.db")
		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		_, err := os.Stat(dbPath)
		require.NoError(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var enabled int
		err := db.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&enabled)
		require.NoError(t, err)
		require.Equal(t, 1, enabled)
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		require.NoError(t, db.Close())

		db = sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		require.NoError(t, db.Close())
	})
}

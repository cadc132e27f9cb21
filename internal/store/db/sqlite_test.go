package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WaelFer/BooksApp/internal/model"
	"github.com/WaelFer/BooksApp/internal/store"
	"github.com/WaelFer/BooksApp/internal/version"
)

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "books.db")
}

func countTables(t *testing.T, d *DB, name string) int {
	t.Helper()
	var n int
	err := d.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n
}

func countRows(t *testing.T, d *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestOpenReturnsSameHandle(t *testing.T) {
	ctx := context.Background()
	path := testDBPath(t)

	d1, err := Open(ctx, path)
	require.NoError(t, err)
	defer d1.Close()

	d2, err := Open(ctx, path)
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, StateOpening, d1.State())

	// The file exists as soon as Open returns.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrInitialization)
}

func TestOpenUnreachablePath(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	d, err := Open(ctx, filepath.Join(blocker, "books.db"))
	require.Error(t, err)
	defer d.Close()
	assert.ErrorIs(t, err, store.ErrInitialization)
	assert.Equal(t, StateFailed, d.State())

	// Failed is terminal for the lifetime of the handle.
	assert.ErrorIs(t, d.EnsureSchema(ctx), store.ErrInitialization)
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()
	d, err := Init(ctx, testDBPath(t))
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, StateReady, d.State())
	for _, table := range []string{"books", "carts", "migration_history"} {
		exists, err := d.CheckTableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}

	latest, err := d.latestMigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, version.GetSchemaVersion(version.GetCurrentVersion()), latest)
	assert.Equal(t, 1, countRows(t, d, "migration_history"))

	var foreignKeys int
	require.NoError(t, d.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	// Ready is terminal, calling again is a no-op.
	assert.NoError(t, d.EnsureSchema(ctx))
}

func TestEnsureSchemaAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	path := testDBPath(t)

	first, err := Init(ctx, path)
	require.NoError(t, err)
	s := store.NewStore(first.DB)
	_, err = s.InsertBook(ctx, &model.NewBookInput{Title: "Dune", Author: "Herbert", Image: "file:///dune.jpg"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Init(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	assert.NotSame(t, first, second)

	assert.Equal(t, 1, countTables(t, second, "books"))
	assert.Equal(t, 1, countTables(t, second, "carts"))

	count, err := store.NewStore(second.DB).CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 1, countRows(t, second, "migration_history"))
}

func TestLatestMigrationVersion(t *testing.T) {
	ctx := context.Background()
	d, err := Open(ctx, testDBPath(t))
	require.NoError(t, err)
	defer d.Close()

	latest, err := d.latestMigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", latest, "no history table yet")

	require.NoError(t, d.EnsureSchema(ctx))
	for _, v := range []string{"0.9.0", "0.10.0", "0.2.0"} {
		require.NoError(t, d.recordMigration(ctx, v))
	}
	require.NoError(t, d.recordMigration(ctx, "0.10.0"))
	assert.Equal(t, 3, countRows(t, d, "migration_history"))

	latest, err = d.latestMigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.10.0", latest)
}

func TestEnsureSchemaOnLegacyDatabase(t *testing.T) {
	ctx := context.Background()
	path := testDBPath(t)

	// A catalog written before migration history existed.
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`
		CREATE TABLE books (
		  id INTEGER PRIMARY KEY AUTOINCREMENT,
		  title TEXT NOT NULL,
		  author TEXT NOT NULL,
		  country TEXT,
		  language TEXT,
		  link TEXT,
		  pages INTEGER,
		  publishedDate INTEGER,
		  prix REAL,
		  image TEXT NOT NULL
		);
		CREATE TABLE carts (
		  id INTEGER PRIMARY KEY AUTOINCREMENT,
		  quantite INTEGER,
		  Book_id INTEGER NOT NULL,
		  FOREIGN KEY (Book_id) REFERENCES books(id)
		);
		INSERT INTO books (title, author, image) VALUES ('Foundation', 'Asimov', 'file:///x.jpg');
	`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	d, err := Init(ctx, path)
	require.NoError(t, err)
	defer d.Close()

	var index string
	require.NoError(t, d.QueryRow("SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_carts_book_id'").Scan(&index))

	count, err := store.NewStore(d.DB).CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*_backup.db"))
	require.NoError(t, err)
	assert.Empty(t, backups, "backup should be removed after a successful migration")
}

func TestEnsureSchemaFailure(t *testing.T) {
	ctx := context.Background()
	path := testDBPath(t)

	broken, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = broken.Exec(`CREATE TABLE migration_history (label TEXT)`)
	require.NoError(t, err)
	require.NoError(t, broken.Close())

	d, err := Init(ctx, path)
	require.Error(t, err)
	defer d.Close()
	assert.ErrorIs(t, err, store.ErrInitialization)
	assert.Equal(t, StateFailed, d.State())
	assert.Equal(t, err, d.Err())

	again, err := Open(ctx, path)
	assert.Same(t, d, again)
	assert.ErrorIs(t, err, store.ErrInitialization)
}

func TestInMemoryDatabase(t *testing.T) {
	ctx := context.Background()
	d, err := Init(ctx, ":memory:")
	require.NoError(t, err)
	defer d.Close()

	s := store.NewStore(d.DB)
	_, err = s.InsertBook(ctx, &model.NewBookInput{Title: "Emma", Author: "Austen", Image: "https://covers.example/emma.jpg"})
	require.NoError(t, err)

	books, err := s.ListBooks(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(9)", State(9).String())
}

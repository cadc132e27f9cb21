package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/WaelFer/BooksApp/internal/config"
	"github.com/WaelFer/BooksApp/internal/log"
	"github.com/WaelFer/BooksApp/internal/store"
	"github.com/WaelFer/BooksApp/internal/version"
)

// State is where a DB is in its lifecycle. Ready and Failed are terminal.
type State int32

const (
	StateUninitialized State = iota
	StateOpening
	StateSchemaEnsuring
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateOpening:
		return "opening"
	case StateSchemaEnsuring:
		return "schema-ensuring"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

const defaultBusyTimeout = 5000

type DB struct {
	*sql.DB
	path string

	mu    sync.Mutex // mu guards state and err
	state State
	err   error
}

var (
	registryMu sync.Mutex
	registry   = map[string]*DB{}
)

// Open returns the process-wide handle for path, opening it and creating
// the file on first use. Later calls with the same path get the same *DB
// until it is closed.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, errors.Wrap(store.ErrInitialization, "database path is required")
	}
	key := registryKey(path)

	registryMu.Lock()
	defer registryMu.Unlock()
	if d, ok := registry[key]; ok {
		if state, err := d.status(); state == StateFailed {
			return d, err
		}
		return d, nil
	}

	d := &DB{path: path, state: StateUninitialized}
	registry[key] = d
	d.setState(StateOpening, nil)

	if err := d.open(ctx); err != nil {
		err = errors.Wrapf(store.ErrInitialization, "open %s: %v", path, err)
		d.setState(StateFailed, err)
		log.Error("Failed to open database", zap.String("path", path), zap.Error(err))
		return d, err
	}

	log.Info("Database opened", zap.String("path", path))
	return d, nil
}

// Init opens path and ensures the schema, the barrier to pass before any
// store operation.
func Init(ctx context.Context, path string) (*DB, error) {
	d, err := Open(ctx, path)
	if err != nil {
		return d, err
	}
	if err := d.EnsureSchema(ctx); err != nil {
		return d, err
	}
	return d, nil
}

func (d *DB) open(ctx context.Context) error {
	if !isMemory(d.path) {
		if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
			return errors.Wrap(err, "failed to create database directory")
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn(d.path))
	if err != nil {
		return err
	}
	// One connection: statements on the shared handle are serialized and an
	// in-memory database is not lost between calls.
	sqlDB.SetMaxOpenConns(1)

	// sql.Open is lazy, ping creates the file.
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return err
	}
	d.DB = sqlDB
	return nil
}

func dsn(path string) string {
	busyTimeout := defaultBusyTimeout
	if config.Opts != nil && config.Opts.BusyTimeout > 0 {
		busyTimeout = config.Opts.BusyTimeout
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", path, sep, busyTimeout)
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory") || strings.HasPrefix(path, "file::memory:")
}

func registryKey(path string) string {
	if isMemory(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// State returns the current lifecycle state.
func (d *DB) State() State {
	state, _ := d.status()
	return state
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Err returns the error that moved the DB to Failed, if any.
func (d *DB) Err() error {
	_, err := d.status()
	return err
}

func (d *DB) status() (State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.err
}

func (d *DB) setState(state State, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state
	d.err = err
}

// Close closes the handle and forgets it, the next Open starts over as a
// fresh process would.
func (d *DB) Close() error {
	registryMu.Lock()
	if registry[registryKey(d.path)] == d {
		delete(registry, registryKey(d.path))
	}
	registryMu.Unlock()

	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST_SCHEMA.sql"

// EnsureSchema creates the tables when absent and applies pending
// migrations. It is safe on every start. Once Ready it does nothing, once
// Failed it returns the original failure.
func (d *DB) EnsureSchema(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateReady:
		return nil
	case StateFailed:
		return d.err
	case StateOpening:
	default:
		return errors.Wrapf(store.ErrInitialization, "cannot ensure schema in state %s", d.state)
	}

	d.state = StateSchemaEnsuring
	if err := d.migrate(ctx); err != nil {
		d.state = StateFailed
		d.err = errors.Wrapf(store.ErrInitialization, "ensure schema: %v", err)
		log.Error("Failed to initialize database schema", zap.String("path", d.path), zap.Error(err))
		d.DB.Close()
		return d.err
	}
	d.state = StateReady
	log.Info("Database initialized", zap.String("path", d.path), zap.String("version", version.GetCurrentVersion()))
	return nil
}

func (d *DB) migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()

	latestMigrationHistoryVersion, err := d.latestMigrationVersion(ctx)
	if err != nil {
		return err
	}

	pending := []string{}
	for _, minorVersion := range getMinorVersionList() {
		// Patches never carry sql, a minor directory stands for its .0 release.
		normalizedVersion := minorVersion + ".0"
		if latestMigrationHistoryVersion != "" && !version.IsVersionGreaterThan(normalizedVersion, latestMigrationHistoryVersion) {
			continue
		}
		if version.IsVersionGreaterOrEqualThan(currentVersion, normalizedVersion) {
			pending = append(pending, minorVersion)
		}
	}

	hasBooks, err := d.CheckTableExists(ctx, "books")
	if err != nil {
		return errors.Wrap(err, "failed to check books table")
	}
	backupDBFilePath := ""
	if hasBooks && len(pending) > 0 && !isMemory(d.path) {
		backupDBFilePath = filepath.Join(filepath.Dir(d.path),
			fmt.Sprintf("books_%s_%d_backup.db", currentVersion, time.Now().Unix()))
		if _, err := d.DB.ExecContext(ctx, "VACUUM INTO ?", backupDBFilePath); err != nil {
			return errors.Wrap(err, "failed to write backup database file")
		}
		log.Info("Database backed up before migration", zap.String("backup", backupDBFilePath))
	}

	if err := d.applyLatestSchema(ctx); err != nil {
		return err
	}
	for _, minorVersion := range pending {
		log.Info("Applying migration", zap.String("version", minorVersion+".0"))
		if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
			return errors.Wrapf(err, "failed to apply version %s migration", minorVersion)
		}
	}
	if err := d.recordMigration(ctx, version.GetSchemaVersion(currentVersion)); err != nil {
		return err
	}

	// Remove the backup once everything succeeded.
	if backupDBFilePath != "" {
		if err := os.Remove(backupDBFilePath); err != nil {
			log.Warn("Failed to remove backup database file", zap.String("backup", backupDBFilePath), zap.Error(err))
		}
	}
	return nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	if err := d.execute(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("migration/%s/*.sql", minorVersion))
	if err != nil {
		return errors.Wrapf(err, "failed to find migration files for version %s", minorVersion)
	}

	// 00001_example.sql, 00002_example.sql, ... are applied in name order.
	slices.Sort(filenames)
	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %q", filename)
		}
		if err := d.execute(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %q", filename)
		}
	}
	return nil
}

// execute runs stmt within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp is a regular expression for minor version directory.
var minorDirRegexp = regexp.MustCompile(`^migration/[0-9]+\.[0-9]+$`)

func getMinorVersionList() []string {
	minorVersionList := []string{}

	if err := fs.WalkDir(migrationFS, "migration", func(path string, file fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file.IsDir() && minorDirRegexp.MatchString(path) {
			minorVersionList = append(minorVersionList, file.Name())
		}

		return nil
	}); err != nil {
		panic(err)
	}

	version.SortVersion(minorVersionList)

	return minorVersionList
}

package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/WaelFer/BooksApp/internal/version"
)

// latestMigrationVersion returns the highest schema version recorded in
// migration_history, or "" for a catalog that has never been migrated.
// Versions are compared as semver, so 0.10.0 sorts after 0.9.0.
func (d *DB) latestMigrationVersion(ctx context.Context) (string, error) {
	exists, err := d.CheckTableExists(ctx, "migration_history")
	if err != nil || !exists {
		return "", err
	}

	rows, err := d.DB.QueryContext(ctx, "SELECT version FROM migration_history")
	if err != nil {
		return "", errors.Wrap(err, "failed to read migration history")
	}
	defer rows.Close()

	latest := ""
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return "", errors.Wrap(err, "failed to scan migration history")
		}
		if latest == "" || version.IsVersionGreaterThan(v, latest) {
			latest = v
		}
	}
	if err := rows.Err(); err != nil {
		return "", errors.Wrap(err, "failed to read migration history")
	}
	return latest, nil
}

// recordMigration marks schemaVersion as applied. Recording the same
// version twice keeps the first timestamp.
func (d *DB) recordMigration(ctx context.Context, schemaVersion string) error {
	_, err := d.DB.ExecContext(ctx,
		"INSERT INTO migration_history (version) VALUES (?) ON CONFLICT(version) DO NOTHING",
		schemaVersion)
	return errors.Wrapf(err, "failed to record schema version %s", schemaVersion)
}

// CheckTableExists reports whether the catalog has a table called name.
func (d *DB) CheckTableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)", name).Scan(&exists)
	return exists, err
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration brings the tenancy, catalog and users schemas up to date
with golang-migrate before the API accepts traffic.

A dirty schema (a previous run stopped half way) is never touched: startup
fails and an operator has to force the version by hand.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty is returned when the schema is marked dirty by an interrupted run.
var ErrDirty = errors.New("migration: schema is dirty")

// RunUp applies every pending migration found under dir to the database at dsn.
func RunUp(dsn, dir string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+dir, DriverURL(dsn))
	if err != nil {
		return fmt.Errorf("migration: open: %w", err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = slogAdapter{logger: logger}

	from, err := schemaVersion(migrator)
	if err != nil {
		return err
	}

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema_current", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: up from %d: %w", from, err)
	}

	to, err := schemaVersion(migrator)
	if err != nil {
		return err
	}

	logger.Info("schema_migrated", slog.Uint64("from", uint64(from)), slog.Uint64("to", uint64(to)))
	return nil
}

// schemaVersion returns the applied version, zero for an empty database.
func schemaVersion(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return 0, fmt.Errorf("%w at version %d", ErrDirty, version)
	}
	return version, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Warn("migration_close_failed", slog.Any("error", err))
	}
}

// DriverURL maps postgres:// and postgresql:// URLs onto the pgx5:// scheme the
// golang-migrate pgx/v5 driver registers. Anything else is returned unchanged.
func DriverURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter forwards golang-migrate's progress lines at debug level.
type slogAdapter struct {
	logger *slog.Logger
}

func (adapter slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug("migration_progress", slog.String("line", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (adapter slogAdapter) Verbose() bool { return false }

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/dberr"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/ids"
)

// PostgresStore implements [Store] on users.userassignment.
type PostgresStore struct {
	db postgres.DB
}

// NewPostgresStore creates a grant store.
func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var (
	grantsQuery = fmt.Sprintf(`
		SELECT a.%s AS assignment, ua.%s, ua.%s, ua.%s, ua.%s
		FROM %s ua
		JOIN %s a ON a.%s = ua.%s
		WHERE ua.%s = $1 AND a.%s = 'ACTIVE'
		ORDER BY a.%s`,
		schema.UserAssignmentCatalog.Name,
		schema.UserAssignment.CanCreate, schema.UserAssignment.CanRead,
		schema.UserAssignment.CanUpdate, schema.UserAssignment.CanDelete,
		schema.UserAssignment.Table,
		schema.UserAssignmentCatalog.Table, schema.UserAssignmentCatalog.ID, schema.UserAssignment.AssignmentID,
		schema.UserAssignment.UserID, schema.UserAssignmentCatalog.Status,
		schema.UserAssignmentCatalog.Name,
	)

	lockUserQuery = fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s IS NULL
		FOR UPDATE`,
		schema.UserAccount.Version, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	bumpUserQuery = fmt.Sprintf(`
		UPDATE %s SET %s = %s + 1, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table, schema.UserAccount.Version, schema.UserAccount.Version, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.Version,
	)

	clearGrantsQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAssignment.Table, schema.UserAssignment.UserID,
	)

	// One row per (user, assignment); a repeated assignment overwrites the earlier flags.
	upsertGrantQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		SELECT $1, $2, a.%s, $4, $5, $6, $7
		FROM %s a
		WHERE a.%s = $3
		ON CONFLICT ON CONSTRAINT userassignment_user_assignment_uq
		DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()`,
		schema.UserAssignment.Table,
		schema.UserAssignment.ID, schema.UserAssignment.UserID, schema.UserAssignment.AssignmentID,
		schema.UserAssignment.CanCreate, schema.UserAssignment.CanRead,
		schema.UserAssignment.CanUpdate, schema.UserAssignment.CanDelete,
		schema.UserAssignmentCatalog.ID,
		schema.UserAssignmentCatalog.Table,
		schema.UserAssignmentCatalog.Name,
		schema.UserAssignment.CanCreate, schema.UserAssignment.CanCreate,
		schema.UserAssignment.CanRead, schema.UserAssignment.CanRead,
		schema.UserAssignment.CanUpdate, schema.UserAssignment.CanUpdate,
		schema.UserAssignment.CanDelete, schema.UserAssignment.CanDelete,
		schema.UserAssignment.UpdatedAt,
	)
)

/*
Grants loads a user's grants joined with the assignment catalog.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []Grant: Ordered by assignment name
  - error: Wrapped storage failure
*/
func (store *PostgresStore) Grants(ctx context.Context, userID string) ([]Grant, error) {
	grants := []Grant{}
	if err := pgxscan.Select(ctx, store.db, &grants, grantsQuery, userID); err != nil {
		return nil, dberr.Wrap(err, "Assignment", "select_grants")
	}
	return grants, nil
}

/*
Replace swaps the grant set inside one transaction.

Description: The user row is locked and its version checked first, so two
concurrent replacements on the same version serialize and the loser gets
STALE_VERSION. The user's version is bumped, which invalidates tokens carrying
the old one.
*/
func (store *PostgresStore) Replace(ctx context.Context, userID string, claimed int, grants []Grant) (int, error) {
	tx, err := store.db.Begin(ctx)
	if err != nil {
		return 0, dberr.Wrap(err, "User", "begin_replace_grants")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stored int
	if err := tx.QueryRow(ctx, lockUserQuery, userID).Scan(&stored); err != nil {
		return 0, dberr.Wrap(err, "User", "lock_user")
	}

	if err := record.CheckVersion(ctx, "User", stored, claimed); err != nil {
		return 0, err
	}

	var next int
	if err := tx.QueryRow(ctx, bumpUserQuery, userID).Scan(&next); err != nil {
		return 0, dberr.Wrap(err, "User", "bump_user_version")
	}

	if _, err := tx.Exec(ctx, clearGrantsQuery, userID); err != nil {
		return 0, dberr.Wrap(err, "Assignment", "clear_grants")
	}

	if err := upsertGrants(ctx, tx, userID, grants); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, dberr.Wrap(err, "Assignment", "commit_replace_grants")
	}

	return next, nil
}

// Seed writes grants for a user that has none yet.
func (store *PostgresStore) Seed(ctx context.Context, userID string, grants []Grant) error {
	tx, err := store.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "Assignment", "begin_seed_grants")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := upsertGrants(ctx, tx, userID, grants); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "Assignment", "commit_seed_grants")
	}
	return nil
}

func upsertGrants(ctx context.Context, tx pgx.Tx, userID string, grants []Grant) error {
	for _, grant := range grants {
		tag, err := tx.Exec(ctx, upsertGrantQuery,
			ids.New(), userID, string(grant.Assignment),
			grant.Create, grant.Read, grant.Update, grant.Delete,
		)
		if err != nil {
			return dberr.Wrap(err, "Assignment", "upsert_grant")
		}
		if tag.RowsAffected() == 0 {
			return apperr.ValidationError("Unknown assignment",
				apperr.FieldError{Field: "assignment", Message: string(grant.Assignment) + " does not exist"})
		}
	}
	return nil
}

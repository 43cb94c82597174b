// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/dberr"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

// Resource is the display name of accounts in messages.
const Resource = "User"

// Table is the versioned table definition of users.account.
var Table = postgres.Table{
	Name:     schema.UserAccount.Table,
	Resource: Resource,
	Source: pagination.Source{
		Table: schema.UserAccount.Table,
		Fields: map[string]string{
			"id":            schema.UserAccount.ID,
			"email":         schema.UserAccount.Email,
			"roleId":        schema.UserAccount.RoleID,
			"clientId":      schema.UserAccount.ClientID,
			"blocked":       schema.UserAccount.Blocked,
			"loginAttempts": schema.UserAccount.LoginAttempts,
			"lastLoginAt":   schema.UserAccount.LastLoginAt,
			"version":       schema.UserAccount.Version,
			"status":        schema.UserAccount.Status,
			"createdAt":     schema.UserAccount.CreatedAt,
			"updatedAt":     schema.UserAccount.UpdatedAt,
		},
		Columns:          schema.UserAccount.Columns(),
		SearchColumns:    []string{schema.UserAccount.Email},
		StatusColumn:     schema.UserAccount.Status,
		SoftDeleteColumn: schema.UserAccount.DeletedAt,
	},
}

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	db    postgres.DB
	users *postgres.Versioned[User]
	now   func() time.Time
}

// NewPostgresStore creates the account store.
func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{
		db:    db,
		users: postgres.NewVersioned[User](db, Table),
		now:   time.Now,
	}
}

// # Reads

// FindByID retrieves a live account.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	return store.users.Find(ctx, id)
}

// FindByEmail retrieves a live account by email, ignoring case.
func (store *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return store.users.FindBy(ctx, sq.Expr("LOWER("+schema.UserAccount.Email+") = LOWER(?)", email))
}

// LookupByID retrieves an account even when soft deleted.
func (store *PostgresStore) LookupByID(ctx context.Context, id string) (*User, error) {
	return store.lookup(ctx, sq.Eq{schema.UserAccount.ID: id})
}

// LookupByEmail retrieves the most relevant account for email, live first.
func (store *PostgresStore) LookupByEmail(ctx context.Context, email string) (*User, error) {
	return store.lookup(ctx, sq.Expr("LOWER("+schema.UserAccount.Email+") = LOWER(?)", email))
}

func (store *PostgresStore) lookup(ctx context.Context, predicate sq.Sqlizer) (*User, error) {
	query, args, err := postgres.Builder.
		Select(Table.Source.Columns...).
		From(Table.Name).
		Where(predicate).
		OrderBy(schema.UserAccount.DeletedAt+" IS NOT NULL", schema.UserAccount.CreatedAt+" DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build_lookup_failed: %w", err))
	}

	var user User
	if err := pgxscan.Get(ctx, store.db, &user, query, args...); err != nil {
		return nil, dberr.Wrap(err, Resource, "lookup_account")
	}
	return &user, nil
}

// List returns one page of accounts.
func (store *PostgresStore) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[User], error) {
	return store.users.List(ctx, filter)
}

/*
Role resolves an active role.

Returns:
  - *RoleInfo: The role
  - error: VALIDATION_ERROR when the id names no active role
*/
func (store *PostgresStore) Role(ctx context.Context, roleID string) (*RoleInfo, error) {
	query, args, err := postgres.Builder.
		Select(schema.UserRole.ID, schema.UserRole.Name).
		From(schema.UserRole.Table).
		Where(sq.Eq{schema.UserRole.ID: roleID, schema.UserRole.Status: record.StatusActive}).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build_role_query_failed: %w", err))
	}

	var role RoleInfo
	if err := pgxscan.Get(ctx, store.db, &role, query, args...); err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.ValidationError("Invalid role", apperr.FieldError{Field: "roleId", Message: "role does not exist"})
		}
		return nil, dberr.Wrap(err, "Role", "select_role")
	}

	return &role, nil
}

// # Writes

// Create inserts a new account.
func (store *PostgresStore) Create(ctx context.Context, id string, status record.Status, values map[string]any) (*User, error) {
	return store.users.Insert(ctx, id, status, values)
}

// Update applies a version-guarded change.
func (store *PostgresStore) Update(ctx context.Context, id string, claimed int, values map[string]any) (*User, error) {
	return store.users.Update(ctx, id, claimed, values)
}

// SoftDelete removes the account if still at version claimed.
func (store *PostgresStore) SoftDelete(ctx context.Context, id string, claimed int) error {
	return store.users.SoftDelete(ctx, id, claimed)
}

// # Session Bookkeeping

// RegisterFailedLogin increments the failure counter and blocks at maxAttempts.
func (store *PostgresStore) RegisterFailedLogin(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	account := schema.UserAccount

	// SET expressions read the pre-update row.
	query, args, err := postgres.Builder.
		Update(account.Table).
		Set(account.LoginAttempts, sq.Expr(account.LoginAttempts+" + 1")).
		Set(account.Blocked, sq.Expr(account.Blocked+" OR "+account.LoginAttempts+" + 1 >= ?", maxAttempts)).
		Set(account.Version, sq.Expr(
			"CASE WHEN NOT "+account.Blocked+" AND "+account.LoginAttempts+" + 1 >= ? THEN "+account.Version+" + 1 ELSE "+account.Version+" END",
			maxAttempts,
		)).
		Set(account.UpdatedAt, store.now().UTC()).
		Where(sq.Eq{account.ID: id, account.DeletedAt: nil}).
		Suffix("RETURNING " + account.LoginAttempts + ", " + account.Blocked).
		ToSql()
	if err != nil {
		return 0, false, apperr.Internal(fmt.Errorf("build_failed_login_failed: %w", err))
	}

	var attempts int
	var blocked bool
	if err := store.db.QueryRow(ctx, query, args...).Scan(&attempts, &blocked); err != nil {
		return 0, false, dberr.Wrap(err, Resource, "register_failed_login")
	}

	return attempts, blocked, nil
}

// RecordLogin stores the session of a successful login.
func (store *PostgresStore) RecordLogin(ctx context.Context, id, refreshHash string) error {
	now := store.now().UTC()
	return store.exec(ctx, "record_login", postgres.Builder.
		Update(schema.UserAccount.Table).
		Set(schema.UserAccount.LoginAttempts, 0).
		Set(schema.UserAccount.RefreshTokenHash, refreshHash).
		Set(schema.UserAccount.LastLoginAt, now).
		Where(sq.Eq{schema.UserAccount.ID: id, schema.UserAccount.DeletedAt: nil}))
}

// RotateRefreshToken replaces oldHash with newHash in one conditional write.
func (store *PostgresStore) RotateRefreshToken(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	query, args, err := postgres.Builder.
		Update(schema.UserAccount.Table).
		Set(schema.UserAccount.RefreshTokenHash, newHash).
		Where(sq.Eq{
			schema.UserAccount.ID:               id,
			schema.UserAccount.RefreshTokenHash: oldHash,
			schema.UserAccount.DeletedAt:        nil,
		}).
		ToSql()
	if err != nil {
		return false, apperr.Internal(fmt.Errorf("build_rotate_refresh_failed: %w", err))
	}

	tag, err := store.db.Exec(ctx, query, args...)
	if err != nil {
		return false, dberr.Wrap(err, Resource, "rotate_refresh_token")
	}

	return tag.RowsAffected() == 1, nil
}

// ClearRefreshToken ends the user's session.
func (store *PostgresStore) ClearRefreshToken(ctx context.Context, id string) error {
	return store.exec(ctx, "clear_refresh_token", postgres.Builder.
		Update(schema.UserAccount.Table).
		Set(schema.UserAccount.RefreshTokenHash, nil).
		Where(sq.Eq{schema.UserAccount.ID: id}))
}

func (store *PostgresStore) exec(ctx context.Context, action string, statement sq.UpdateBuilder) error {
	query, args, err := statement.ToSql()
	if err != nil {
		return apperr.Internal(fmt.Errorf("build_%s_failed: %w", action, err))
	}

	if _, err := store.db.Exec(ctx, query, args...); err != nil {
		return dberr.Wrap(err, Resource, action)
	}
	return nil
}

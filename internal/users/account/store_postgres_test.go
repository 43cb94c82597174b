// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/account"
)

var accountColumns = []string{
	"id", "version", "status", "createdat", "updatedat", "deletedat",
	"email", "passwordhash", "roleid", "rolename", "clientid", "blocked",
	"loginattempts", "refreshtokenhash", "lastloginat",
}

func accountRow(mockPool pgxmock.PgxPoolIface, deletedAt *time.Time) *pgxmock.Rows {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return mockPool.NewRows(accountColumns).AddRow(
		"u-1", 2, record.StatusActive, now, now, deletedAt,
		"ana@example.com", "hash", "r-1", sec.RoleAdmin, (*string)(nil), false,
		0, (*string)(nil), (*time.Time)(nil),
	)
}

/*
TestPostgresStore_FindByEmail verifies the case-insensitive live lookup and the role subselect.
*/
func TestPostgresStore_FindByEmail(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`SELECT .+ AS rolename.+ FROM users\.account WHERE \(deletedat IS NULL AND LOWER\(email\) = LOWER\(\$1\)\) LIMIT 1`).
		WithArgs("Ana@Example.com").
		WillReturnRows(accountRow(mockPool, nil))

	user, err := account.NewPostgresStore(mockPool).FindByEmail(context.Background(), "Ana@Example.com")

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.Equal(t, 2, user.Version)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_LookupByIDDeleted verifies soft-deleted accounts are still returned.
*/
func TestPostgresStore_LookupByIDDeleted(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	deletedAt := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mockPool.ExpectQuery(`FROM users\.account WHERE id = \$1 ORDER BY deletedat IS NOT NULL, createdat DESC LIMIT 1`).
		WithArgs("u-1").
		WillReturnRows(accountRow(mockPool, &deletedAt))

	user, err := account.NewPostgresStore(mockPool).LookupByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.True(t, user.IsDeleted())
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_RegisterFailedLogin verifies the counting statement and its result.
*/
func TestPostgresStore_RegisterFailedLogin(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`UPDATE users\.account SET loginattempts = loginattempts \+ 1, blocked = blocked OR loginattempts \+ 1 >= \$1, version = CASE WHEN NOT blocked AND loginattempts \+ 1 >= \$2 THEN version \+ 1 ELSE version END, updatedat = \$3 WHERE deletedat IS NULL AND id = \$4 RETURNING loginattempts, blocked`).
		WithArgs(5, 5, pgxmock.AnyArg(), "u-1").
		WillReturnRows(mockPool.NewRows([]string{"loginattempts", "blocked"}).AddRow(5, true))

	attempts, blocked, err := account.NewPostgresStore(mockPool).RegisterFailedLogin(context.Background(), "u-1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
	assert.True(t, blocked)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_RotateRefreshToken verifies the compare-and-set on the stored hash.
*/
func TestPostgresStore_RotateRefreshToken(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	query := `UPDATE users\.account SET refreshtokenhash = \$1 WHERE deletedat IS NULL AND id = \$2 AND refreshtokenhash = \$3`
	mockPool.ExpectExec(query).WithArgs("new", "u-1", "old").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(query).WithArgs("newer", "u-1", "old").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := account.NewPostgresStore(mockPool)

	rotated, err := store.RotateRefreshToken(context.Background(), "u-1", "old", "new")
	require.NoError(t, err)
	assert.True(t, rotated)

	rotated, err = store.RotateRefreshToken(context.Background(), "u-1", "old", "newer")
	require.NoError(t, err)
	assert.False(t, rotated)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_RoleUnknown verifies a missing role is a validation failure.
*/
func TestPostgresStore_RoleUnknown(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`SELECT id, name FROM users\.role WHERE id = \$1 AND status = \$2`).
		WithArgs("r-9", record.StatusActive).
		WillReturnError(pgx.ErrNoRows)

	_, err = account.NewPostgresStore(mockPool).Role(context.Background(), "r-9")

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

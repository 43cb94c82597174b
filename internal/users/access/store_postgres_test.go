// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/users/access"
)

/*
TestPostgresStore_Grants verifies the join query is scanned into grants.
*/
func TestPostgresStore_Grants(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`SELECT a\.name AS assignment, ua\.cancreate, ua\.canread, ua\.canupdate, ua\.candelete`).
		WithArgs("u-1").
		WillReturnRows(mockPool.NewRows([]string{"assignment", "cancreate", "canread", "canupdate", "candelete"}).
			AddRow("PACKAGE", false, true, false, false).
			AddRow("SOURCE", true, true, true, true))

	grants, err := access.NewPostgresStore(mockPool).Grants(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, []access.Grant{
		{Assignment: access.AssignmentPackage, Read: true},
		{Assignment: access.AssignmentSource, Create: true, Read: true, Update: true, Delete: true},
	}, grants)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_Replace verifies the locked version check, bump and upsert sequence.
*/
func TestPostgresStore_Replace(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT version FROM users\.account`).
		WithArgs("u-1").
		WillReturnRows(mockPool.NewRows([]string{"version"}).AddRow(3))
	mockPool.ExpectQuery(`UPDATE users\.account SET version = version \+ 1`).
		WithArgs("u-1").
		WillReturnRows(mockPool.NewRows([]string{"version"}).AddRow(4))
	mockPool.ExpectExec(`DELETE FROM users\.userassignment WHERE userid = \$1`).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mockPool.ExpectExec(`INSERT INTO users\.userassignment`).
		WithArgs(pgxmock.AnyArg(), "u-1", "PACKAGE", false, true, false, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	version, err := access.NewPostgresStore(mockPool).Replace(context.Background(), "u-1", 3,
		[]access.Grant{{Assignment: access.AssignmentPackage, Read: true}})

	require.NoError(t, err)
	assert.Equal(t, 4, version)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_ReplaceStale verifies a stale claimed version aborts before any write.
*/
func TestPostgresStore_ReplaceStale(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT version FROM users\.account`).
		WithArgs("u-1").
		WillReturnRows(mockPool.NewRows([]string{"version"}).AddRow(4))
	mockPool.ExpectRollback()

	_, err = access.NewPostgresStore(mockPool).Replace(context.Background(), "u-1", 3, nil)

	assert.True(t, apperr.HasCode(err, apperr.CodeStaleVersion))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_ReplaceMissingUser verifies a deleted user yields NOT_FOUND.
*/
func TestPostgresStore_ReplaceMissingUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT version FROM users\.account`).
		WithArgs("u-1").
		WillReturnError(pgx.ErrNoRows)
	mockPool.ExpectRollback()

	_, err = access.NewPostgresStore(mockPool).Replace(context.Background(), "u-1", 1, nil)

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestPostgresStore_SeedUnknownAssignment verifies an assignment missing from the catalogue is rejected.
*/
func TestPostgresStore_SeedUnknownAssignment(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectBegin()
	mockPool.ExpectExec(`INSERT INTO users\.userassignment`).
		WithArgs(pgxmock.AnyArg(), "u-1", "BILLING", true, true, true, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectRollback()

	err = access.NewPostgresStore(mockPool).Seed(context.Background(), "u-1",
		[]access.Grant{{Assignment: "BILLING", Create: true, Read: true, Update: true, Delete: true}})

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

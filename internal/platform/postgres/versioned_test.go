// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

type widget struct {
	record.Versioned
	Name string `db:"name"`
}

var widgetColumns = []string{"id", "version", "status", "createdat", "updatedat", "deletedat", "name"}

var widgetTable = postgres.Table{
	Name:     "catalog.widget",
	Resource: "Widget",
	Source: pagination.Source{
		Table:            "catalog.widget",
		Fields:           map[string]string{"id": "id", "name": "name", "createdAt": "createdat"},
		Columns:          widgetColumns,
		StatusColumn:     "status",
		SoftDeleteColumn: "deletedat",
	},
}

func widgetRow(mockPool pgxmock.PgxPoolIface, version int, name string) *pgxmock.Rows {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return mockPool.NewRows(widgetColumns).
		AddRow("w-1", version, record.StatusActive, now, now, (*time.Time)(nil), name)
}

/*
TestVersioned_Insert verifies new rows start at version 1.
*/
func TestVersioned_Insert(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	// SetMap orders columns alphabetically
	mockPool.ExpectQuery(`INSERT INTO catalog\.widget \(createdat,id,name,status,updatedat,version\) VALUES .+ RETURNING id, version`).
		WithArgs(pgxmock.AnyArg(), "w-1", "Gear", record.StatusActive, pgxmock.AnyArg(), record.InitialVersion).
		WillReturnRows(widgetRow(mockPool, 1, "Gear"))

	store := postgres.NewVersioned[widget](mockPool, widgetTable)
	created, err := store.Insert(context.Background(), "w-1", record.StatusActive, map[string]any{"name": "Gear"})

	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, "Gear", created.Name)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestVersioned_UpdateThenStale walks a record from version 3 to 4 and then
replays the old version, which must be rejected.
*/
func TestVersioned_UpdateThenStale(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	store := postgres.NewVersioned[widget](mockPool, widgetTable)
	ctx := context.Background()

	// First writer holds version 3 and wins.
	mockPool.ExpectQuery(`UPDATE catalog\.widget SET name = \$1, version = version \+ 1, updatedat = \$2 WHERE deletedat IS NULL AND id = \$3 AND version = \$4 RETURNING`).
		WithArgs("Sprocket", pgxmock.AnyArg(), "w-1", 3).
		WillReturnRows(widgetRow(mockPool, 4, "Sprocket"))

	updated, err := store.Update(ctx, "w-1", 3, map[string]any{"name": "Sprocket"})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Version)

	// Second writer still holds version 3.
	mockPool.ExpectQuery(`UPDATE catalog\.widget SET`).
		WithArgs("Cog", pgxmock.AnyArg(), "w-1", 3).
		WillReturnRows(mockPool.NewRows(widgetColumns))
	mockPool.ExpectQuery(`SELECT version FROM catalog\.widget WHERE deletedat IS NULL AND id = \$1`).
		WithArgs("w-1").
		WillReturnRows(mockPool.NewRows([]string{"version"}).AddRow(4))

	_, err = store.Update(ctx, "w-1", 3, map[string]any{"name": "Cog"})
	assert.True(t, apperr.HasCode(err, apperr.CodeStaleVersion), "got %v", err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestVersioned_UpdateMissingRow verifies a write against a deleted row is NOT_FOUND.
*/
func TestVersioned_UpdateMissingRow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`UPDATE catalog\.widget SET`).
		WillReturnRows(mockPool.NewRows(widgetColumns))
	mockPool.ExpectQuery(`SELECT version FROM catalog\.widget`).
		WithArgs("w-9").
		WillReturnError(pgx.ErrNoRows)

	store := postgres.NewVersioned[widget](mockPool, widgetTable)
	_, err = store.Update(context.Background(), "w-9", 1, map[string]any{"name": "x"})

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestVersioned_SoftDelete verifies delete is version guarded.
*/
func TestVersioned_SoftDelete(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	store := postgres.NewVersioned[widget](mockPool, widgetTable)
	ctx := context.Background()

	mockPool.ExpectExec(`UPDATE catalog\.widget SET deletedat = \$1, version = version \+ 1`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "w-1", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, store.SoftDelete(ctx, "w-1", 4))

	mockPool.ExpectExec(`UPDATE catalog\.widget SET deletedat`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "w-1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockPool.ExpectQuery(`SELECT version FROM catalog\.widget`).
		WithArgs("w-1").
		WillReturnRows(mockPool.NewRows([]string{"version"}).AddRow(5))

	err = store.SoftDelete(ctx, "w-1", 2)
	assert.True(t, apperr.HasCode(err, apperr.CodeStaleVersion), "got %v", err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestVersioned_Find verifies soft deleted rows are invisible.
*/
func TestVersioned_Find(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`SELECT id, version, status, createdat, updatedat, deletedat, name FROM catalog\.widget WHERE \(deletedat IS NULL AND id = \$1\) LIMIT 1`).
		WithArgs("w-1").
		WillReturnRows(widgetRow(mockPool, 2, "Gear"))
	mockPool.ExpectQuery(`SELECT .+ FROM catalog\.widget`).
		WithArgs("w-2").
		WillReturnRows(mockPool.NewRows(widgetColumns))

	store := postgres.NewVersioned[widget](mockPool, widgetTable)

	found, err := store.Find(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Version)

	_, err = store.Find(context.Background(), "w-2")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

/*
TestVersioned_ListFailure verifies store errors collapse into DATA_PAGINATION_ERROR.
*/
func TestVersioned_ListFailure(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("connection reset"))

	store := postgres.NewVersioned[widget](mockPool, widgetTable)
	_, err = store.List(context.Background(), pagination.Filter{})

	assert.True(t, apperr.HasCode(err, apperr.CodePagination))

	_, err = store.List(context.Background(), pagination.Filter{OrderBy: "secret"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/dberr"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
	"github.com/taibuivan/backoffice/internal/platform/metrics"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

// Builder renders squirrel statements with PostgreSQL placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Column names shared by every versioned table.
const (
	ColID        = "id"
	ColVersion   = "version"
	ColStatus    = "status"
	ColCreatedAt = "createdat"
	ColUpdatedAt = "updatedat"
	ColDeletedAt = "deletedat"
)

// Table describes a table whose rows follow the versioned-record layout.
type Table struct {
	// Name is the schema-qualified table name.
	Name string
	// Resource is the display name used in error messages ("Package").
	Resource string
	// Source is the list definition, including projection and sort allow-lists.
	Source pagination.Source
}

// Versioned is a typed gateway to one versioned table.
//
// Every mutation is a single conditional statement: the row is only touched when
// it is live and still carries the version the caller read. A write that matches
// nothing is resolved into NOT_FOUND or STALE_VERSION afterwards.
type Versioned[T any] struct {
	db    DB
	table Table
	now   func() time.Time
}

// NewVersioned creates a gateway for table.
func NewVersioned[T any](db DB, table Table) *Versioned[T] {
	return &Versioned[T]{db: db, table: table, now: time.Now}
}

// DB exposes the underlying handle for resource-specific queries.
func (store *Versioned[T]) DB() DB { return store.db }

// # Reads

/*
Find loads a live row by id.

Returns:
  - *T: The row
  - error: NOT_FOUND if absent or soft deleted
*/
func (store *Versioned[T]) Find(ctx context.Context, id string) (*T, error) {
	return store.FindBy(ctx, sq.Eq{ColID: id})
}

// FindBy loads the first live row matching predicate.
func (store *Versioned[T]) FindBy(ctx context.Context, predicate sq.Sqlizer) (*T, error) {
	sql, args, err := Builder.
		Select(store.table.Source.Columns...).
		From(store.table.Name).
		Where(sq.And{sq.Eq{ColDeletedAt: nil}, predicate}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build_find_failed: %w", err))
	}

	var row T
	if err := pgxscan.Get(ctx, store.db, &row, sql, args...); err != nil {
		if dberr.IsNoRows(err) {
			return nil, store.notFound(ctx)
		}
		return nil, dberr.Wrap(err, store.table.Resource, "find_"+store.table.Name)
	}

	return &row, nil
}

/*
List returns one page of live rows.

Description: Delegates to the pagination engine and translates its failures:
an unknown orderBy/select becomes VALIDATION_ERROR and any store failure becomes
the single DATA_PAGINATION_ERROR.
*/
func (store *Versioned[T]) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[T], error) {
	result, err := pagination.Paginate[T](ctx, store.db, store.table.Source, filter)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, pagination.ErrUnknownField) {
		return nil, apperr.ValidationError(err.Error())
	}

	ctxutil.GetLogger(ctx).Error("pagination_failed",
		slog.String("table", store.table.Name),
		slog.Any("error", err),
	)
	return nil, apperr.PaginationFailed(i18n.T(ctx, i18n.KeyPaginationFailed), err)
}

// # Writes

/*
Insert creates a row at version 1.

Parameters:
  - values: Column values, excluding the versioned-record columns

Returns:
  - *T: The stored row as returned by PostgreSQL
*/
func (store *Versioned[T]) Insert(ctx context.Context, id string, status record.Status, values map[string]any) (*T, error) {
	now := store.now().UTC()

	row := maps.Clone(values)
	if row == nil {
		row = map[string]any{}
	}
	row[ColID] = id
	row[ColVersion] = record.InitialVersion
	row[ColStatus] = status
	row[ColCreatedAt] = now
	row[ColUpdatedAt] = now

	sql, args, err := Builder.
		Insert(store.table.Name).
		SetMap(row).
		Suffix("RETURNING " + store.returning()).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build_insert_failed: %w", err))
	}

	var created T
	if err := pgxscan.Get(ctx, store.db, &created, sql, args...); err != nil {
		return nil, dberr.Wrap(err, store.table.Resource, "insert_"+store.table.Name)
	}

	return &created, nil
}

/*
Update applies values to a live row if it still carries the claimed version.

Description: One conditional UPDATE bumps the version by exactly one. When it
matches no row the outcome is resolved into NOT_FOUND or STALE_VERSION.
*/
func (store *Versioned[T]) Update(ctx context.Context, id string, claimed int, values map[string]any) (*T, error) {
	sql, args, err := store.guardedUpdate(id, claimed, values).
		Suffix("RETURNING " + store.returning()).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build_update_failed: %w", err))
	}

	var updated T
	if err := pgxscan.Get(ctx, store.db, &updated, sql, args...); err != nil {
		if dberr.IsNoRows(err) {
			return nil, store.resolveMiss(ctx, id, claimed)
		}
		return nil, dberr.Wrap(err, store.table.Resource, "update_"+store.table.Name)
	}

	return &updated, nil
}

// SoftDelete marks a live row as deleted if it still carries the claimed version.
func (store *Versioned[T]) SoftDelete(ctx context.Context, id string, claimed int) error {
	sql, args, err := store.guardedUpdate(id, claimed, map[string]any{
		ColDeletedAt: store.now().UTC(),
	}).ToSql()
	if err != nil {
		return apperr.Internal(fmt.Errorf("build_delete_failed: %w", err))
	}

	tag, err := store.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberr.Wrap(err, store.table.Resource, "delete_"+store.table.Name)
	}

	if tag.RowsAffected() == 0 {
		return store.resolveMiss(ctx, id, claimed)
	}

	return nil
}

func (store *Versioned[T]) guardedUpdate(id string, claimed int, values map[string]any) sq.UpdateBuilder {
	return Builder.
		Update(store.table.Name).
		SetMap(values).
		Set(ColVersion, sq.Expr(ColVersion+" + 1")).
		Set(ColUpdatedAt, store.now().UTC()).
		Where(sq.Eq{ColID: id, ColVersion: claimed, ColDeletedAt: nil})
}

// resolveMiss explains why a guarded write matched nothing.
func (store *Versioned[T]) resolveMiss(ctx context.Context, id string, claimed int) error {
	sql, args, err := Builder.
		Select(ColVersion).
		From(store.table.Name).
		Where(sq.Eq{ColID: id, ColDeletedAt: nil}).
		ToSql()
	if err != nil {
		return apperr.Internal(fmt.Errorf("build_version_lookup_failed: %w", err))
	}

	var stored int
	if err := store.db.QueryRow(ctx, sql, args...).Scan(&stored); err != nil {
		if dberr.IsNoRows(err) {
			return store.notFound(ctx)
		}
		return dberr.Wrap(err, store.table.Resource, "lookup_version_"+store.table.Name)
	}

	err = record.CheckVersion(ctx, store.table.Resource, stored, claimed)
	if err == nil {
		// Versions only grow: a live row at the claimed version lost a race with another writer.
		err = apperr.StaleVersion(i18n.T(ctx, i18n.KeyStaleVersion, store.table.Resource))
	}

	metrics.VersionConflicts.WithLabelValues(store.table.Resource).Inc()
	ctxutil.GetLogger(ctx).Info("stale_version_rejected",
		slog.String("resource", store.table.Resource),
		slog.String("id", id),
		slog.Int("claimed", claimed),
		slog.Int("stored", stored),
	)

	return err
}

func (store *Versioned[T]) notFound(ctx context.Context) error {
	notFound := apperr.NotFound(store.table.Resource)
	notFound.Message = i18n.T(ctx, i18n.KeyNotFound, store.table.Resource)
	return notFound
}

func (store *Versioned[T]) returning() string {
	return strings.Join(store.table.Source.Columns, ", ")
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// likeEscaper neutralizes LIKE wildcards in user search terms.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Querier is satisfied by pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	pgxscan.Querier
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrUnknownField is returned when orderBy or select names a field the source does not expose.
var ErrUnknownField = errors.New("pagination: unknown field")

// ErrQuery wraps every store failure raised while paginating.
var ErrQuery = errors.New("pagination: query failed")

// Source describes how a resource is read.
type Source struct {
	// Table is the schema-qualified table name.
	Table string

	// Fields maps API field names to column expressions. It is both the
	// projection allow-list and the sort allow-list.
	Fields map[string]string

	// Columns is the default projection, in scan order.
	Columns []string

	// SearchColumns are matched case-insensitively against Filter.Search.
	SearchColumns []string

	// StatusColumn receives the Filter.Status equality. Empty disables it.
	StatusColumn string

	// SoftDeleteColumn hides rows where it is not null. Empty disables it.
	SoftDeleteColumn string
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

/*
Paginate runs the count and page queries for src under filter.

Description: The filter is normalized first, so paging input never fails. Both
queries share one predicate, built from the soft-delete guard, Filter.Where,
the optional status equality and the optional search. Results are scanned into
T with pgxscan.

Parameters:
  - ctx: context.Context
  - db: Querier (pool, transaction or pgxmock)
  - src: Source
  - filter: Filter

Returns:
  - *Result[T]: Page data with meta
  - error: ErrUnknownField for bad orderBy/select, ErrQuery for store failures
*/
func Paginate[T any](ctx context.Context, db Querier, src Source, filter Filter) (*Result[T], error) {
	filter = filter.Normalize()

	orderColumn, ok := src.Fields[filter.OrderBy]
	if !ok {
		return nil, fmt.Errorf("%w: orderBy %q", ErrUnknownField, filter.OrderBy)
	}

	columns, err := src.projection(filter.Select)
	if err != nil {
		return nil, err
	}

	predicate := src.predicate(filter)

	// # Count
	countSQL, countArgs, err := builder.Select("COUNT(*)").From(src.Table).Where(predicate).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build count: %w", ErrQuery, err)
	}

	var total int
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%w: count %s: %w", ErrQuery, src.Table, err)
	}

	result := &Result[T]{
		Data: make([]T, 0),
		Meta: NewMeta(filter.Page, filter.PerPage, total),
	}
	if total == 0 || filter.Offset() >= total {
		return result, nil
	}

	// # Page
	pageSQL, pageArgs, err := builder.
		Select(columns...).
		From(src.Table).
		Where(predicate).
		OrderBy(fmt.Sprintf("%s %s", orderColumn, filter.Order)).
		Limit(uint64(filter.PerPage)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build page: %w", ErrQuery, err)
	}

	if err := pgxscan.Select(ctx, db, &result.Data, pageSQL, pageArgs...); err != nil {
		return nil, fmt.Errorf("%w: select %s: %w", ErrQuery, src.Table, err)
	}

	return result, nil
}

// predicate merges the soft-delete guard, caller predicates, status and search.
func (src Source) predicate(filter Filter) sq.And {
	predicate := sq.And{}

	if src.SoftDeleteColumn != "" {
		predicate = append(predicate, sq.Eq{src.SoftDeleteColumn: nil})
	}

	predicate = append(predicate, filter.Where...)

	if filter.Status != "" && src.StatusColumn != "" {
		predicate = append(predicate, sq.Eq{src.StatusColumn: filter.Status})
	}

	if filter.Search != "" && len(src.SearchColumns) > 0 {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		search := sq.Or{}
		for _, column := range src.SearchColumns {
			search = append(search, sq.Expr(column+` ILIKE ? ESCAPE '\'`, pattern))
		}
		predicate = append(predicate, search)
	}

	return predicate
}

// projection resolves the selected API fields to columns.
func (src Source) projection(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return src.Columns, nil
	}

	columns := make([]string, 0, len(selected)+1)

	// The identifier is always returned so rows stay addressable.
	if id, ok := src.Fields["id"]; ok {
		columns = append(columns, id)
	}

	for _, field := range selected {
		column, ok := src.Fields[field]
		if !ok {
			return nil, fmt.Errorf("%w: select %q", ErrUnknownField, field)
		}
		if !slices.Contains(columns, column) {
			columns = append(columns, column)
		}
	}

	return columns, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err)
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - resource: Display name used for NOT_FOUND and CONFLICT messages ("Package").
//   - action: snake_case operation name kept in the cause for logs ("insert_package").
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream
	if apperr.IsAppError(err) {
		return err
	}

	if IsNoRows(err) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict(fmt.Sprintf("%s already exists", resource))
			conflict.Cause = fmt.Errorf("%s: %w", action, err)
			return conflict
		case pgerrcode.ForeignKeyViolation:
			invalid := apperr.Unprocessable(fmt.Sprintf("%s references a record that does not exist", resource))
			invalid.Cause = fmt.Errorf("%s: %w", action, err)
			return invalid
		case pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow, pgerrcode.ConnectionFailure:
			return apperr.StoreUnavailable(fmt.Errorf("%s: %w", action, err))
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

// # Repository Contracts

// Store defines the persistence contract for user accounts.
type Store interface {

	/*
		FindByID returns the live account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail returns the live account with the given email, case-insensitively.

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		LookupByID and LookupByEmail also return soft-deleted accounts, preferring
		a live one, so the account guard can tell deleted from unknown.

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND when no row ever existed
	*/
	LookupByID(ctx context.Context, id string) (*User, error)
	LookupByEmail(ctx context.Context, email string) (*User, error)

	// List returns one page of live accounts.
	List(ctx context.Context, filter pagination.Filter) (*pagination.Result[User], error)

	// Role resolves an active role by id.
	Role(ctx context.Context, roleID string) (*RoleInfo, error)

	// Create inserts a new account at version 1.
	Create(ctx context.Context, id string, status record.Status, values map[string]any) (*User, error)

	// Update applies values if the account is still at version claimed.
	Update(ctx context.Context, id string, claimed int, values map[string]any) (*User, error)

	// SoftDelete deletes the account if it is still at version claimed.
	SoftDelete(ctx context.Context, id string, claimed int) error

	// # Session bookkeeping

	/*
		RegisterFailedLogin counts one wrong password.

		Description: Reaching maxAttempts blocks the account. Blocking is an
		administrative state change and bumps the version; plain counting does not.

		Returns:
		  - attempts: Consecutive failures so far
		  - blocked: Whether the account is now blocked
	*/
	RegisterFailedLogin(ctx context.Context, id string, maxAttempts int) (attempts int, blocked bool, err error)

	// RecordLogin resets the failure counter and stores the new refresh token hash.
	RecordLogin(ctx context.Context, id, refreshHash string) error

	/*
		RotateRefreshToken swaps the stored refresh hash if it still equals oldHash.

		Returns:
		  - bool: false when another request rotated or cleared it first
	*/
	RotateRefreshToken(ctx context.Context, id, oldHash, newHash string) (bool, error)

	// ClearRefreshToken drops the stored refresh hash.
	ClearRefreshToken(ctx context.Context, id string) error
}

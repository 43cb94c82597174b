// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"time"
)

// # Data Access

// Store defines persistence of user grants.
type Store interface {

	/*
		Grants returns every grant held by userID on an active assignment.

		Parameters:
		  - ctx: context.Context
		  - userID: string

		Returns:
		  - []Grant: Possibly empty
		  - error: Database retrieval failures
	*/
	Grants(ctx context.Context, userID string) ([]Grant, error)

	/*
		Replace swaps the user's whole grant set and bumps the user's version.

		Parameters:
		  - ctx: context.Context
		  - userID: string
		  - claimed: int (user version the caller read)
		  - grants: []Grant

		Returns:
		  - int: The new user version
		  - error: NOT_FOUND, STALE_VERSION or persistence failures
	*/
	Replace(ctx context.Context, userID string, claimed int, grants []Grant) (int, error)

	/*
		Seed writes the initial grants of a freshly created user.

		Parameters:
		  - ctx: context.Context
		  - userID: string
		  - grants: []Grant

		Returns:
		  - error: Persistence failures
	*/
	Seed(ctx context.Context, userID string, grants []Grant) error
}

// Cache is a read-through cache of resolved grants keyed by user and user version.
type Cache interface {
	Get(ctx context.Context, userID string, version int) ([]Grant, bool)
	Set(ctx context.Context, userID string, version int, grants []Grant, ttl time.Duration)
	Evict(ctx context.Context, userID string, version int)
}

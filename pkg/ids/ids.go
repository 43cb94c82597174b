// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ids generates the identifiers used across the backoffice.
//
// Primary keys are UUIDv7: time-sortable and friendly to PostgreSQL B-tree
// indexes. Correlation identifiers handed to operators in logs are ULIDs, which
// stay short and lexicographically ordered when grepping.
package ids

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New generates a new UUIDv7 string.
//
// # Safety
//
// It panics only if the OS random source is unavailable. OS entropy failure is
// an unrecoverable system-level error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("ids: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Correlation generates a new ULID string for log correlation.
func Correlation() string {
	return ulid.Make().String()
}

// Valid reports whether s is a well-formed UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}

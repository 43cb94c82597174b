// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package record defines the fields shared by every mutable backoffice entity.

A versioned record starts at version 1. Each successful mutation, including a
soft delete, increments the version by exactly one. Writers must present the
version they read; a mismatch is reported as a stale version instead of
silently overwriting a concurrent change.
*/
package record

import (
	"context"
	"time"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
)

// # Status

// Status is the administrative state of a record.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// InitialVersion is the version assigned on creation.
const InitialVersion = 1

// # Versioned Record

// Versioned holds the identity, lifecycle and concurrency fields of an entity.
// Embed it untagged so struct scanning maps the columns to the top level.
type Versioned struct {
	ID        string     `json:"id"                  db:"id"`
	Version   int        `json:"version"             db:"version"`
	Status    Status     `json:"status"              db:"status"`
	CreatedAt time.Time  `json:"createdAt"           db:"createdat"`
	UpdatedAt time.Time  `json:"updatedAt"           db:"updatedat"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deletedat"`
}

// IsDeleted reports whether the record has been soft deleted.
func (v Versioned) IsDeleted() bool {
	return v.DeletedAt != nil
}

// IsActive reports whether the record is live and not switched off.
func (v Versioned) IsActive() bool {
	return v.DeletedAt == nil && v.Status != StatusInactive
}

// # Concurrency Guard

// CheckVersion compares a stored version with the one the caller claims to have read.
func CheckVersion(ctx context.Context, resource string, stored, claimed int) error {
	if stored != claimed {
		return apperr.StaleVersion(i18n.T(ctx, i18n.KeyStaleVersion, resource))
	}
	return nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages backoffice user accounts.

It owns the user record, the guard deciding whether an account may act at all,
and the CRUD surface administrators use to manage users and their assignments.

# Architecture

  - Entities: User (versioned record) and Profile (user plus grants).
  - Guard: EnsureUsable, shared by login, refresh and every authenticated request.
  - Store: PostgreSQL, through the versioned table gateway.
*/
package account

import (
	"time"

	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/access"
)

// # Domain Entities

// User is a backoffice account.
//
// A user is usable only while active, not blocked and not soft deleted. The
// refresh token hash is the single session the user currently holds.
type User struct {
	record.Versioned

	Email            string     `json:"email"         db:"email"`
	PasswordHash     string     `json:"-"             db:"passwordhash"`
	RoleID           string     `json:"roleId"        db:"roleid"`
	Role             sec.Role   `json:"role"          db:"rolename"`
	ClientID         *string    `json:"clientId"      db:"clientid"`
	Blocked          bool       `json:"blocked"       db:"blocked"`
	LoginAttempts    int        `json:"loginAttempts" db:"loginattempts"`
	RefreshTokenHash *string    `json:"-"             db:"refreshtokenhash"`
	LastLoginAt      *time.Time `json:"lastLoginAt"   db:"lastloginat"`
}

// Identity returns the token identity of the user at its current version.
func (u *User) Identity() sec.Identity {
	return sec.Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		ClientID: u.ClientID,
		Version:  u.Version,
	}
}

// Profile is a user together with its grants.
type Profile struct {
	*User
	Assignments []access.Grant `json:"assignments"`
}

// # Inputs

// CreateInput holds the fields of a new account.
type CreateInput struct {
	Email    string
	Password string
	RoleID   string
	ClientID *string
	Status   record.Status

	// Grants defaults to the role's grants when empty.
	Grants []access.Grant
}

// UpdateInput is a partial update guarded by Version.
type UpdateInput struct {
	Version  int
	Email    *string
	Password *string
	RoleID   *string
	ClientID *string
	Status   *record.Status
	Blocked  *bool
}

// RoleInfo is a row of users.role.
type RoleInfo struct {
	ID   string   `json:"id"   db:"id"`
	Name sec.Role `json:"name" db:"name"`
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role is the coarse account category. It decides the default capability
// surface of a new user; per-resource authorization comes from assignments.
type Role string

const (
	// Platform operator. Usually has no client and sees every tenant.
	RoleAdmin Role = "ADMIN"

	// Tenant-scoped operator bound to a single client.
	RoleClient Role = "CLIENT"
)

// Valid reports whether r is a known role name.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

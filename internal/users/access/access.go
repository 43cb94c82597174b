// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides whether a user may perform an action on a resource.

Authorization is assignment based: a user holds at most one grant per named
capability domain (USER, PACKAGE, ...), each with four independent CRUD flags.
Roles only decide the default grants handed to a new account.

Tenant isolation is layered on top: a user bound to a client can only reach
records of that client, while platform users (no client) see every tenant.
*/
package access

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/sec"
)

// # Vocabulary

// Action is one of the four CRUD verbs a grant can allow.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Name identifies an assignment (capability domain).
type Name string

const (
	AssignmentUser       Name = "USER"
	AssignmentPackage    Name = "PACKAGE"
	AssignmentSource     Name = "SOURCE"
	AssignmentCostCenter Name = "COST_CENTER"
	AssignmentClient     Name = "CLIENT"
)

// Names lists every assignment seeded by the initial migration.
var Names = []Name{
	AssignmentUser,
	AssignmentPackage,
	AssignmentSource,
	AssignmentCostCenter,
	AssignmentClient,
}

// Valid reports whether n is a known assignment.
func (n Name) Valid() bool {
	for _, known := range Names {
		if n == known {
			return true
		}
	}
	return false
}

// # Grants

// Grant is the persisted binding between a user and one assignment.
type Grant struct {
	Assignment Name `json:"assignment" db:"assignment"`
	Create     bool `json:"create"     db:"cancreate"`
	Read       bool `json:"read"       db:"canread"`
	Update     bool `json:"update"     db:"canupdate"`
	Delete     bool `json:"delete"     db:"candelete"`
}

// Allows reports whether the flag matching action is set.
func (g Grant) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return g.Create
	case ActionRead:
		return g.Read
	case ActionUpdate:
		return g.Update
	case ActionDelete:
		return g.Delete
	default:
		return false
	}
}

// Subject is everything the authorization decision needs about a caller.
type Subject struct {
	UserID   string
	ClientID *string
	Grants   []Grant
}

// Grant returns the subject's grant for name, if any.
func (s Subject) Grant(name Name) (Grant, bool) {
	for _, grant := range s.Grants {
		if grant.Assignment == name {
			return grant, true
		}
	}
	return Grant{}, false
}

// # Decision

/*
Authorize is the permission model.

Description: A missing grant denies. Otherwise the action flag decides, and
when both the target tenant and the subject's client are known they must
match. A subject without a client is a platform user and skips that check.

Parameters:
  - subject: Subject
  - assignment: Name
  - action: Action
  - tenant: *string (client id owning the target record, nil when not tenant-bound)

Returns:
  - bool: true when allowed
*/
func Authorize(subject Subject, assignment Name, action Action, tenant *string) bool {
	grant, found := subject.Grant(assignment)
	if !found || !grant.Allows(action) {
		return false
	}

	if tenant != nil && subject.ClientID != nil && *tenant != *subject.ClientID {
		return false
	}

	return true
}

// Covers reports whether held includes every flag set in requested. A caller
// can never hand out a capability it does not hold itself.
func Covers(held, requested []Grant) bool {
	subject := Subject{Grants: held}
	for _, grant := range requested {
		for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			if grant.Allows(action) && !Authorize(subject, grant.Assignment, action, nil) {
				return false
			}
		}
	}
	return true
}

// DefaultGrants returns the grants a new account of role receives when the
// creator does not supply any.
func DefaultGrants(role sec.Role) []Grant {
	grants := make([]Grant, 0, len(Names))

	switch role {
	case sec.RoleAdmin:
		for _, name := range Names {
			grants = append(grants, Grant{Assignment: name, Create: true, Read: true, Update: true, Delete: true})
		}
	case sec.RoleClient:
		for _, name := range []Name{AssignmentPackage, AssignmentSource, AssignmentCostCenter, AssignmentClient} {
			grants = append(grants, Grant{Assignment: name, Read: true})
		}
	}

	return grants
}

// TenantScope returns the client the authenticated caller is confined to, or
// nil for platform users and anonymous contexts.
func TenantScope(ctx context.Context) *string {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil {
		return nil
	}
	return claims.ClientID
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/access"
)

func ptr(value string) *string { return &value }

var allActions = []access.Action{access.ActionCreate, access.ActionRead, access.ActionUpdate, access.ActionDelete}

/*
TestAuthorize_MissingGrant verifies that a user without a binding is denied every action.
*/
func TestAuthorize_MissingGrant(t *testing.T) {
	subject := access.Subject{UserID: "u-1", Grants: []access.Grant{{Assignment: access.AssignmentSource, Read: true}}}

	for _, action := range allActions {
		assert.False(t, access.Authorize(subject, access.AssignmentPackage, action, nil), action)
	}
}

/*
TestAuthorize_FlagCompleteness verifies that each action maps to exactly its own flag.
*/
func TestAuthorize_FlagCompleteness(t *testing.T) {
	for _, allowed := range allActions {
		grant := access.Grant{Assignment: access.AssignmentUser}
		switch allowed {
		case access.ActionCreate:
			grant.Create = true
		case access.ActionRead:
			grant.Read = true
		case access.ActionUpdate:
			grant.Update = true
		case access.ActionDelete:
			grant.Delete = true
		}
		subject := access.Subject{UserID: "u-1", Grants: []access.Grant{grant}}

		for _, action := range allActions {
			assert.Equal(t, action == allowed, access.Authorize(subject, access.AssignmentUser, action, nil),
				"grant %s, action %s", allowed, action)
		}
	}
}

/*
TestAuthorize_PackageScenario mirrors a catalogue reader: read allowed, create denied.
*/
func TestAuthorize_PackageScenario(t *testing.T) {
	subject := access.Subject{
		UserID: "u-1",
		Grants: []access.Grant{{Assignment: access.AssignmentPackage, Read: true}},
	}

	assert.True(t, access.Authorize(subject, access.AssignmentPackage, access.ActionRead, nil))
	assert.False(t, access.Authorize(subject, access.AssignmentPackage, access.ActionCreate, nil))
}

/*
TestAuthorize_TenantIsolation verifies client-bound users are confined to their tenant
while platform users are not.
*/
func TestAuthorize_TenantIsolation(t *testing.T) {
	grants := []access.Grant{{Assignment: access.AssignmentCostCenter, Create: true, Read: true, Update: true, Delete: true}}

	tenantUser := access.Subject{UserID: "u-1", ClientID: ptr("client-a"), Grants: grants}
	platformUser := access.Subject{UserID: "u-2", Grants: grants}

	for _, action := range allActions {
		assert.True(t, access.Authorize(tenantUser, access.AssignmentCostCenter, action, ptr("client-a")))
		assert.False(t, access.Authorize(tenantUser, access.AssignmentCostCenter, action, ptr("client-b")))
		assert.True(t, access.Authorize(tenantUser, access.AssignmentCostCenter, action, nil))

		assert.True(t, access.Authorize(platformUser, access.AssignmentCostCenter, action, ptr("client-b")))
	}
}

/*
TestDefaultGrants verifies the role-derived starting grants.
*/
func TestDefaultGrants(t *testing.T) {
	admin := access.Subject{Grants: access.DefaultGrants(sec.RoleAdmin)}
	for _, name := range access.Names {
		for _, action := range allActions {
			assert.True(t, access.Authorize(admin, name, action, nil))
		}
	}

	client := access.Subject{Grants: access.DefaultGrants(sec.RoleClient)}
	assert.True(t, access.Authorize(client, access.AssignmentPackage, access.ActionRead, nil))
	assert.False(t, access.Authorize(client, access.AssignmentPackage, access.ActionCreate, nil))
	assert.False(t, access.Authorize(client, access.AssignmentUser, access.ActionRead, nil))

	assert.Empty(t, access.DefaultGrants(sec.Role("GUEST")))
}

/*
TestTenantScope verifies the scope is taken from the caller's claims.
*/
func TestTenantScope(t *testing.T) {
	assert.Nil(t, access.TenantScope(context.Background()))

	ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "u-1", ClientID: ptr("client-a")})
	assert.Equal(t, "client-a", *access.TenantScope(ctx))

	ctx = ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "u-2"})
	assert.Nil(t, access.TenantScope(ctx))
}

/*
TestName_Valid verifies the assignment catalogue check.
*/
func TestName_Valid(t *testing.T) {
	assert.True(t, access.AssignmentCostCenter.Valid())
	assert.False(t, access.Name("BILLING").Valid())
}

/*
TestCovers verifies a grant set can only be handed out by a holder of every flag.
*/
func TestCovers(t *testing.T) {
	held := []access.Grant{{Assignment: access.AssignmentPackage, Read: true, Update: true}}

	assert.True(t, access.Covers(held, []access.Grant{{Assignment: access.AssignmentPackage, Read: true}}))
	assert.True(t, access.Covers(held, nil))
	assert.False(t, access.Covers(held, []access.Grant{{Assignment: access.AssignmentPackage, Delete: true}}))
	assert.False(t, access.Covers(held, []access.Grant{{Assignment: access.AssignmentSource, Read: true}}))
}

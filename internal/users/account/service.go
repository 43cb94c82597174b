// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/access"
	"github.com/taibuivan/backoffice/pkg/ids"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

// # Service Layer

// Service orchestrates user administration.
//
// Every operation checks the caller's USER grant, and tenant-bound callers are
// confined to accounts of their own client.
type Service struct {
	store  Store
	access *access.Service
}

// NewService constructs a new [Service].
func NewService(store Store, accessService *access.Service) *Service {
	return &Service{store: store, access: accessService}
}

// # Queries

// List returns one page of accounts visible to the caller.
func (service *Service) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[User], error) {
	if err := service.access.Require(ctx, access.AssignmentUser, access.ActionRead, nil); err != nil {
		return nil, err
	}

	if tenant := access.TenantScope(ctx); tenant != nil {
		filter = filter.And(sq.Eq{schema.UserAccount.ClientID: *tenant})
	}

	return service.store.List(ctx, filter)
}

// Get returns one account with its grants.
func (service *Service) Get(ctx context.Context, id string) (*Profile, error) {
	user, err := service.load(ctx, id, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return service.profile(ctx, user)
}

// Me returns the caller's own account and grants.
func (service *Service) Me(ctx context.Context) (*Profile, error) {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := service.store.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return service.profile(ctx, user)
}

// # Commands

/*
Create registers a new account at version 1.

Description: Tenant-bound callers can only create CLIENT accounts inside
their own client. The new account receives the supplied grants or, when none
are given, the defaults of its role; either way the caller must hold every
granted flag.

Returns:
  - *Profile: The stored account and its grants
  - error: Validation, FORBIDDEN, CONFLICT or storage failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Profile, error) {
	tenant := access.TenantScope(ctx)
	if input.ClientID == nil && tenant != nil {
		input.ClientID = tenant
	}

	if err := service.access.Require(ctx, access.AssignmentUser, access.ActionCreate, input.ClientID); err != nil {
		return nil, err
	}

	role, err := service.store.Role(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	if err := service.checkRoleScope(ctx, role.Name, input.ClientID); err != nil {
		return nil, err
	}

	grants := input.Grants
	if len(grants) == 0 {
		grants = access.DefaultGrants(role.Name)
	}
	if err := service.checkGrantable(ctx, grants); err != nil {
		return nil, err
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	status := input.Status
	if status == "" {
		status = record.StatusActive
	}

	user, err := service.store.Create(ctx, ids.New(), status, map[string]any{
		schema.UserAccount.Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		schema.UserAccount.Password: passwordHash,
		schema.UserAccount.RoleID:   role.ID,
		schema.UserAccount.ClientID: input.ClientID,
	})
	if err != nil {
		return nil, err
	}

	// An account without grants is denied everything, so a failed seed leaves it inert.
	if err := service.access.Seed(ctx, user.ID, grants); err != nil {
		return nil, fmt.Errorf("account_service_seed_grants_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).Info("account_created",
		slog.String("account_id", user.ID),
		slog.String("role", string(role.Name)),
	)

	return &Profile{User: user, Assignments: grants}, nil
}

/*
Update applies a partial change guarded by the caller's version.

Description: Changing the password also ends the account's session. Unblocking
resets the failed-login counter.
*/
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*User, error) {
	user, err := service.load(ctx, id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}

	if input.Email != nil {
		values[schema.UserAccount.Email] = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if input.Password != nil {
		passwordHash, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		values[schema.UserAccount.Password] = passwordHash
		values[schema.UserAccount.RefreshTokenHash] = nil
	}

	clientID := user.ClientID
	if input.ClientID != nil {
		if access.TenantScope(ctx) != nil {
			return nil, apperr.Forbidden(i18n.T(ctx, i18n.KeyForbidden))
		}
		clientID = input.ClientID
		values[schema.UserAccount.ClientID] = *input.ClientID
	}

	if input.RoleID != nil {
		role, err := service.store.Role(ctx, *input.RoleID)
		if err != nil {
			return nil, err
		}
		if err := service.checkRoleScope(ctx, role.Name, clientID); err != nil {
			return nil, err
		}
		values[schema.UserAccount.RoleID] = role.ID
	}

	if input.Status != nil {
		values[schema.UserAccount.Status] = *input.Status
	}

	if input.Blocked != nil {
		values[schema.UserAccount.Blocked] = *input.Blocked
		if !*input.Blocked {
			values[schema.UserAccount.LoginAttempts] = 0
		}
	}

	return service.store.Update(ctx, id, input.Version, values)
}

// Delete soft deletes an account at the claimed version.
func (service *Service) Delete(ctx context.Context, id string, version int) error {
	if claims := ctxutil.GetAuthUser(ctx); claims != nil && claims.UserID == id {
		return apperr.Unprocessable("You cannot delete your own account")
	}

	if _, err := service.load(ctx, id, access.ActionDelete); err != nil {
		return err
	}

	if err := service.store.SoftDelete(ctx, id, version); err != nil {
		return err
	}

	service.access.Evict(ctx, id, version)
	return nil
}

// Assignments returns an account's grants.
func (service *Service) Assignments(ctx context.Context, id string) ([]access.Grant, error) {
	user, err := service.load(ctx, id, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return service.access.Grants(ctx, id, user.Version)
}

/*
ReplaceAssignments swaps an account's whole grant set.

Returns:
  - int: The account's new version
  - error: VALIDATION_ERROR, FORBIDDEN, STALE_VERSION or storage failures
*/
func (service *Service) ReplaceAssignments(ctx context.Context, id string, version int, grants []access.Grant) (int, error) {
	if _, err := service.load(ctx, id, access.ActionUpdate); err != nil {
		return 0, err
	}

	for _, grant := range grants {
		if !grant.Assignment.Valid() {
			return 0, apperr.ValidationError("Unknown assignment",
				apperr.FieldError{Field: "assignment", Message: string(grant.Assignment) + " does not exist"})
		}
	}

	if err := service.checkGrantable(ctx, grants); err != nil {
		return 0, err
	}

	return service.access.Replace(ctx, id, version, grants)
}

// # Session Checks

/*
CheckSession re-validates the holder of an access token against the store.

Description: The account must still pass [EnsureUsable] and its version must
equal the version the token was issued at. Any mutation of the account since
then (password, role, grants, blocking) makes the token stale.
*/
func (service *Service) CheckSession(ctx context.Context, claims *sec.AuthClaims) error {
	user, err := service.store.LookupByID(ctx, claims.UserID)
	if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		return err
	}

	if err := EnsureUsable(ctx, user, ctxutil.GetLocale(ctx)); err != nil {
		return err
	}

	if user.Version != claims.Version {
		return apperr.Unauthorized(i18n.T(ctx, i18n.KeySessionStale))
	}

	return nil
}

// # Helpers

// load authorizes action on the account, first without and then with its tenant.
func (service *Service) load(ctx context.Context, id string, action access.Action) (*User, error) {
	if err := service.access.Require(ctx, access.AssignmentUser, action, nil); err != nil {
		return nil, err
	}

	user, err := service.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.access.Require(ctx, access.AssignmentUser, action, user.ClientID); err != nil {
		return nil, err
	}

	// A tenant-bound caller never sees platform accounts.
	if access.TenantScope(ctx) != nil && user.ClientID == nil {
		return nil, apperr.Forbidden(i18n.T(ctx, i18n.KeyForbidden))
	}

	return user, nil
}

func (service *Service) profile(ctx context.Context, user *User) (*Profile, error) {
	grants, err := service.access.Grants(ctx, user.ID, user.Version)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Assignments: grants}, nil
}

// checkRoleScope enforces that CLIENT accounts belong to a client and that
// tenant-bound callers only manage CLIENT accounts.
func (service *Service) checkRoleScope(ctx context.Context, role sec.Role, clientID *string) error {
	if access.TenantScope(ctx) != nil && role != sec.RoleClient {
		return apperr.Forbidden(i18n.T(ctx, i18n.KeyForbidden))
	}

	if role == sec.RoleClient && clientID == nil {
		return apperr.ValidationError("Invalid client",
			apperr.FieldError{Field: "clientId", Message: "is required for CLIENT accounts"})
	}

	return nil
}

func (service *Service) checkGrantable(ctx context.Context, grants []access.Grant) error {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	held, err := service.access.Grants(ctx, claims.UserID, claims.Version)
	if err != nil {
		return err
	}

	if !access.Covers(held, grants) {
		return apperr.Forbidden(i18n.T(ctx, i18n.KeyForbidden))
	}
	return nil
}

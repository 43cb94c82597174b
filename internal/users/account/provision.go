// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/platform/validate"
	"github.com/taibuivan/backoffice/internal/users/access"
	"github.com/taibuivan/backoffice/pkg/ids"
)

// AdminRoleID is the ADMIN role seeded by the initial migration.
const AdminRoleID = "01950000-0000-7000-8000-000000000001"

/*
ProvisionAdmin creates the platform administrator when no live account owns email.

Description: Runs at startup without an authenticated caller, so no grant is
checked. It is idempotent: an existing live account with that email is left
untouched, and losing a concurrent insert to another instance counts as done.

Returns:
  - bool: Whether an account was created
  - error: VALIDATION_ERROR for unusable credentials, or storage failures
*/
func (service *Service) ProvisionAdmin(ctx context.Context, logger *slog.Logger, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := (&validate.Validator{}).Email("email", email).Password("password", password).Err(); err != nil {
		return false, err
	}

	existing, err := service.store.FindByEmail(ctx, email)
	if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		return false, err
	}
	if existing != nil {
		logger.Info("admin_provision_skipped", slog.String("account_id", existing.ID))
		return false, nil
	}

	role, err := service.store.Role(ctx, AdminRoleID)
	if err != nil {
		return false, fmt.Errorf("admin_role_lookup_failed: %w", err)
	}

	passwordHash, err := sec.HashPassword(password)
	if err != nil {
		return false, err
	}

	user, err := service.store.Create(ctx, ids.New(), record.StatusActive, map[string]any{
		schema.UserAccount.Email:    email,
		schema.UserAccount.Password: passwordHash,
		schema.UserAccount.RoleID:   role.ID,
		schema.UserAccount.ClientID: nil,
	})
	if apperr.HasCode(err, apperr.CodeConflict) {
		logger.Info("admin_provision_skipped", slog.String("reason", "concurrent_insert"))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := service.access.Seed(ctx, user.ID, access.DefaultGrants(sec.RoleAdmin)); err != nil {
		return false, fmt.Errorf("admin_seed_grants_failed: %w", err)
	}

	logger.Info("admin_provisioned", slog.String("account_id", user.ID))
	return true, nil
}

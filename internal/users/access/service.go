// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
	"github.com/taibuivan/backoffice/internal/platform/metrics"
	"github.com/taibuivan/backoffice/internal/platform/record"
)

// Service resolves grants and enforces [Authorize] for request handlers.
type Service struct {
	store Store
	cache Cache
	ttl   time.Duration
}

// NewService creates an access service. cache may be nil.
func NewService(store Store, cache Cache, ttl time.Duration) *Service {
	return &Service{store: store, cache: cache, ttl: ttl}
}

/*
Grants returns userID's grants, reading through the cache.

version is the user version the caller observed (token claim or loaded row).
Entries are only shared between readers of the same version.
*/
func (service *Service) Grants(ctx context.Context, userID string, version int) ([]Grant, error) {
	if service.cache != nil {
		if grants, found := service.cache.Get(ctx, userID, version); found {
			return grants, nil
		}
	}

	grants, err := service.store.Grants(ctx, userID)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		service.cache.Set(ctx, userID, version, grants, service.ttl)
	}
	return grants, nil
}

/*
Require checks that the authenticated caller may perform action on assignment.

Parameters:
  - ctx: context.Context (must carry auth claims)
  - assignment: Name
  - action: Action
  - tenant: *string (client owning the target record, nil when not tenant-bound)

Returns:
  - error: UNAUTHORIZED without claims, FORBIDDEN when denied
*/
func (service *Service) Require(ctx context.Context, assignment Name, action Action, tenant *string) error {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	grants, err := service.Grants(ctx, claims.UserID, claims.Version)
	if err != nil {
		return err
	}

	subject := Subject{UserID: claims.UserID, ClientID: claims.ClientID, Grants: grants}
	if Authorize(subject, assignment, action, tenant) {
		return nil
	}

	metrics.PermissionDenials.WithLabelValues(string(assignment), string(action)).Inc()
	ctxutil.GetLogger(ctx).Info("permission_denied",
		slog.String("assignment", string(assignment)),
		slog.String("action", string(action)),
	)

	return apperr.Forbidden(i18n.T(ctx, i18n.KeyForbidden))
}

// Replace swaps userID's grants and drops the entry of the superseded version.
func (service *Service) Replace(ctx context.Context, userID string, claimed int, grants []Grant) (int, error) {
	version, err := service.store.Replace(ctx, userID, claimed, grants)
	if err != nil {
		return 0, err
	}

	service.Evict(ctx, userID, claimed)
	return version, nil
}

// Seed writes the initial grants of a new user.
func (service *Service) Seed(ctx context.Context, userID string, grants []Grant) error {
	if err := service.store.Seed(ctx, userID, grants); err != nil {
		return err
	}

	service.Evict(ctx, userID, record.InitialVersion)
	return nil
}

// Evict drops the grants cached for userID at version.
func (service *Service) Evict(ctx context.Context, userID string, version int) {
	if service.cache != nil {
		service.cache.Evict(ctx, userID, version)
	}
}

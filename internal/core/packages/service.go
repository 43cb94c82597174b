// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package packages

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/validate"
	"github.com/taibuivan/backoffice/internal/users/access"
	"github.com/taibuivan/backoffice/pkg/ids"
	"github.com/taibuivan/backoffice/pkg/pagination"
	"github.com/taibuivan/backoffice/pkg/slug"
)

type Service struct {
	store  Store
	access *access.Service
}

func NewService(store Store, accessService *access.Service) *Service {
	return &Service{store: store, access: accessService}
}

func (service *Service) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Package], error) {
	if err := service.access.Require(ctx, access.AssignmentPackage, access.ActionRead, nil); err != nil {
		return nil, err
	}
	return service.store.List(ctx, filter)
}

func (service *Service) Get(ctx context.Context, id string) (*Package, error) {
	if err := service.access.Require(ctx, access.AssignmentPackage, access.ActionRead, nil); err != nil {
		return nil, err
	}
	return service.store.Get(ctx, id)
}

func (service *Service) Create(ctx context.Context, input CreateInput) (*Package, error) {
	if err := service.access.Require(ctx, access.AssignmentPackage, access.ActionCreate, nil); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Code == "" {
		input.Code = slug.From(input.Name)
	}
	if input.Status == "" {
		input.Status = record.StatusActive
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, maxNameLen).
		Slug(FieldCode, input.Code).
		MaxLen(FieldDescription, input.Description, maxDescriptionLen).
		NonNegative(FieldPriceCents, input.PriceCents).
		NonNegative(FieldQuota, int64(input.Quota)).
		Status("status", input.Status)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created, err := service.store.Create(ctx, ids.New(), input.Status, map[string]any{
		schema.CatalogPackage.Name:        input.Name,
		schema.CatalogPackage.Code:        input.Code,
		schema.CatalogPackage.Description: input.Description,
		schema.CatalogPackage.PriceCents:  input.PriceCents,
		schema.CatalogPackage.Quota:       input.Quota,
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("package_created", slog.String("package_id", created.ID), slog.String("code", created.Code))
	return created, nil
}

func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Package, error) {
	if err := service.access.Require(ctx, access.AssignmentPackage, access.ActionUpdate, nil); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Version(input.Version)
	values := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLen)
		values[schema.CatalogPackage.Name] = name
	}
	if input.Code != nil {
		validator.Slug(FieldCode, *input.Code)
		values[schema.CatalogPackage.Code] = *input.Code
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, maxDescriptionLen)
		values[schema.CatalogPackage.Description] = *input.Description
	}
	if input.PriceCents != nil {
		validator.NonNegative(FieldPriceCents, *input.PriceCents)
		values[schema.CatalogPackage.PriceCents] = *input.PriceCents
	}
	if input.Quota != nil {
		validator.NonNegative(FieldQuota, int64(*input.Quota))
		values[schema.CatalogPackage.Quota] = *input.Quota
	}
	if input.Status != nil {
		validator.Status("status", *input.Status)
		values[postgres.ColStatus] = *input.Status
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.store.Update(ctx, id, input.Version, values)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("package_updated", slog.String("package_id", id), slog.Int("version", updated.Version))
	return updated, nil
}

func (service *Service) Delete(ctx context.Context, id string, version int) error {
	if err := service.access.Require(ctx, access.AssignmentPackage, access.ActionDelete, nil); err != nil {
		return err
	}

	if err := service.store.Delete(ctx, id, version); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Warn("package_deleted", slog.String("package_id", id))
	return nil
}

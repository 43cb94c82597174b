// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

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

func (service *Service) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Source], error) {
	if err := service.access.Require(ctx, access.AssignmentSource, access.ActionRead, nil); err != nil {
		return nil, err
	}
	return service.store.List(ctx, filter)
}

func (service *Service) Get(ctx context.Context, id string) (*Source, error) {
	if err := service.access.Require(ctx, access.AssignmentSource, access.ActionRead, nil); err != nil {
		return nil, err
	}
	return service.store.Get(ctx, id)
}

func (service *Service) GetByCode(ctx context.Context, code string) (*Source, error) {
	if err := service.access.Require(ctx, access.AssignmentSource, access.ActionRead, nil); err != nil {
		return nil, err
	}
	return service.store.GetByCode(ctx, code)
}

func (service *Service) Create(ctx context.Context, input CreateInput) (*Source, error) {
	if err := service.access.Require(ctx, access.AssignmentSource, access.ActionCreate, nil); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.URL = strings.TrimSpace(input.URL)
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
		OneOf(FieldKind, string(input.Kind), kinds...).
		Status("status", input.Status)
	if input.URL != "" {
		validator.URL(FieldURL, input.URL).MaxLen(FieldURL, input.URL, maxURLLen)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created, err := service.store.Create(ctx, ids.New(), input.Status, map[string]any{
		schema.CatalogSource.Name: input.Name,
		schema.CatalogSource.Code: input.Code,
		schema.CatalogSource.URL:  input.URL,
		schema.CatalogSource.Kind: input.Kind,
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("source_created", slog.String("source_id", created.ID), slog.String("kind", string(created.Kind)))
	return created, nil
}

func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Source, error) {
	if err := service.access.Require(ctx, access.AssignmentSource, access.ActionUpdate, nil); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Version(input.Version)
	values := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLen)
		values[schema.CatalogSource.Name] = name
	}
	if input.Code != nil {
		validator.Slug(FieldCode, *input.Code)
		values[schema.CatalogSource.Code] = *input.Code
	}
	if input.URL != nil {
		address := strings.TrimSpace(*input.URL)
		if address != "" {
			validator.URL(FieldURL, address).MaxLen(FieldURL, address, maxURLLen)
		}
		values[schema.CatalogSource.URL] = address
	}
	if input.Kind != nil {
		validator.OneOf(FieldKind, string(*input.Kind), kinds...)
		values[schema.CatalogSource.Kind] = *input.Kind
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

	ctxutil.GetLogger(ctx).Info("source_updated", slog.String("source_id", id), slog.Int("version", updated.Version))
	return updated, nil
}

func (service *Service) Delete(ctx context.Context, id string, version int) error {
	if err := service.access.Require(ctx, access.AssignmentSource, access.ActionDelete, nil); err != nil {
		return err
	}

	if err := service.store.Delete(ctx, id, version); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Warn("source_deleted", slog.String("source_id", id))
	return nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/validate"
	"github.com/taibuivan/backoffice/internal/users/access"
	"github.com/taibuivan/backoffice/pkg/ids"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

type Service struct {
	store  Store
	access *access.Service
}

func NewService(store Store, accessService *access.Service) *Service {
	return &Service{store: store, access: accessService}
}

// List returns every client for platform users and only their own client otherwise.
func (service *Service) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Client], error) {
	if err := service.access.Require(ctx, access.AssignmentClient, access.ActionRead, nil); err != nil {
		return nil, err
	}

	if tenant := access.TenantScope(ctx); tenant != nil {
		filter = filter.And(sq.Eq{postgres.ColID: *tenant})
	}
	return service.store.List(ctx, filter)
}

func (service *Service) Get(ctx context.Context, id string) (*Client, error) {
	if err := service.access.Require(ctx, access.AssignmentClient, access.ActionRead, &id); err != nil {
		return nil, err
	}
	return service.store.Get(ctx, id)
}

// Create registers a tenant. Tenant-bound callers cannot create other tenants.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Client, error) {
	if err := service.access.Require(ctx, access.AssignmentClient, access.ActionCreate, nil); err != nil {
		return nil, err
	}
	if access.TenantScope(ctx) != nil {
		return nil, apperr.Forbidden(i18n.T(ctx, i18n.KeyForbidden))
	}

	input.Name = strings.TrimSpace(input.Name)
	input.TaxID = strings.TrimSpace(input.TaxID)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Status == "" {
		input.Status = record.StatusActive
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, maxNameLen).
		Required(FieldTaxID, input.TaxID).
		MaxLen(FieldTaxID, input.TaxID, maxTaxIDLen).
		Email(FieldEmail, input.Email).
		MaxLen(FieldPhone, input.Phone, maxPhoneLen).
		Status("status", input.Status)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created, err := service.store.Create(ctx, ids.New(), input.Status, map[string]any{
		schema.TenancyClient.Name:  input.Name,
		schema.TenancyClient.TaxID: input.TaxID,
		schema.TenancyClient.Email: input.Email,
		schema.TenancyClient.Phone: input.Phone,
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("client_created", slog.String("client_id", created.ID))
	return created, nil
}

func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Client, error) {
	if err := service.access.Require(ctx, access.AssignmentClient, access.ActionUpdate, &id); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Version(input.Version)
	values := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLen)
		values[schema.TenancyClient.Name] = name
	}
	if input.TaxID != nil {
		taxID := strings.TrimSpace(*input.TaxID)
		validator.Required(FieldTaxID, taxID).MaxLen(FieldTaxID, taxID, maxTaxIDLen)
		values[schema.TenancyClient.TaxID] = taxID
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		validator.Email(FieldEmail, email)
		values[schema.TenancyClient.Email] = email
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		validator.MaxLen(FieldPhone, phone, maxPhoneLen)
		values[schema.TenancyClient.Phone] = phone
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

	ctxutil.GetLogger(ctx).Info("client_updated", slog.String("client_id", id), slog.Int("version", updated.Version))
	return updated, nil
}

func (service *Service) Delete(ctx context.Context, id string, version int) error {
	if err := service.access.Require(ctx, access.AssignmentClient, access.ActionDelete, &id); err != nil {
		return err
	}

	if err := service.store.Delete(ctx, id, version); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Warn("client_deleted", slog.String("client_id", id))
	return nil
}

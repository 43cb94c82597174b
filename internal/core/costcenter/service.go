// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package costcenter

import (
	"context"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"

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

/*
List returns one page of cost centers.

Parameters:
  - clientID: string (optional narrowing, ignored when empty)

Description: A tenant-bound caller is always confined to its own client, even
when it asks for another one.
*/
func (service *Service) List(ctx context.Context, filter pagination.Filter, clientID string) (*pagination.Result[CostCenter], error) {
	if err := service.access.Require(ctx, access.AssignmentCostCenter, access.ActionRead, nil); err != nil {
		return nil, err
	}

	if tenant := access.TenantScope(ctx); tenant != nil {
		filter = filter.And(sq.Eq{schema.TenancyCostCenter.ClientID: *tenant})
	}
	if clientID != "" {
		if err := (&validate.Validator{}).UUID(FieldClientID, clientID).Err(); err != nil {
			return nil, err
		}
		filter = filter.And(sq.Eq{schema.TenancyCostCenter.ClientID: clientID})
	}
	return service.store.List(ctx, filter)
}

func (service *Service) Get(ctx context.Context, id string) (*CostCenter, error) {
	return service.load(ctx, id, access.ActionRead)
}

func (service *Service) Create(ctx context.Context, input CreateInput) (*CostCenter, error) {
	if input.ClientID == "" {
		if tenant := access.TenantScope(ctx); tenant != nil {
			input.ClientID = *tenant
		}
	}
	if err := service.access.Require(ctx, access.AssignmentCostCenter, access.ActionCreate, &input.ClientID); err != nil {
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
	validator.UUID(FieldClientID, input.ClientID).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, maxNameLen).
		Slug(FieldCode, input.Code).
		Status("status", input.Status)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created, err := service.store.Create(ctx, ids.New(), input.Status, map[string]any{
		schema.TenancyCostCenter.ClientID: input.ClientID,
		schema.TenancyCostCenter.Name:     input.Name,
		schema.TenancyCostCenter.Code:     input.Code,
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("cost_center_created",
		slog.String("cost_center_id", created.ID),
		slog.String("client_id", created.ClientID),
	)
	return created, nil
}

func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*CostCenter, error) {
	if _, err := service.load(ctx, id, access.ActionUpdate); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Version(input.Version)
	values := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLen)
		values[schema.TenancyCostCenter.Name] = name
	}
	if input.Code != nil {
		validator.Slug(FieldCode, *input.Code)
		values[schema.TenancyCostCenter.Code] = *input.Code
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

	ctxutil.GetLogger(ctx).Info("cost_center_updated", slog.String("cost_center_id", id), slog.Int("version", updated.Version))
	return updated, nil
}

func (service *Service) Delete(ctx context.Context, id string, version int) error {
	if _, err := service.load(ctx, id, access.ActionDelete); err != nil {
		return err
	}

	if err := service.store.Delete(ctx, id, version); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Warn("cost_center_deleted", slog.String("cost_center_id", id))
	return nil
}

// load authorizes action on the cost center, first without and then with its client.
func (service *Service) load(ctx context.Context, id string, action access.Action) (*CostCenter, error) {
	if err := service.access.Require(ctx, access.AssignmentCostCenter, action, nil); err != nil {
		return nil, err
	}

	found, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.access.Require(ctx, access.AssignmentCostCenter, action, &found.ClientID); err != nil {
		return nil, err
	}
	return found, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package costcenter

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

const Resource = "Cost center"

var Table = postgres.Table{
	Name:     schema.TenancyCostCenter.Table,
	Resource: Resource,
	Source: pagination.Source{
		Table: schema.TenancyCostCenter.Table,
		Fields: map[string]string{
			"id":        postgres.ColID,
			"clientId":  schema.TenancyCostCenter.ClientID,
			"name":      schema.TenancyCostCenter.Name,
			"code":      schema.TenancyCostCenter.Code,
			"version":   postgres.ColVersion,
			"status":    postgres.ColStatus,
			"createdAt": postgres.ColCreatedAt,
			"updatedAt": postgres.ColUpdatedAt,
		},
		Columns:          schema.TenancyCostCenter.Columns(),
		SearchColumns:    []string{schema.TenancyCostCenter.Name, schema.TenancyCostCenter.Code},
		StatusColumn:     postgres.ColStatus,
		SoftDeleteColumn: postgres.ColDeletedAt,
	},
}

type PostgresStore struct {
	costCenters *postgres.Versioned[CostCenter]
}

func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{costCenters: postgres.NewVersioned[CostCenter](db, Table)}
}

func (store *PostgresStore) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[CostCenter], error) {
	return store.costCenters.List(ctx, filter)
}

func (store *PostgresStore) Get(ctx context.Context, id string) (*CostCenter, error) {
	return store.costCenters.Find(ctx, id)
}

func (store *PostgresStore) Create(ctx context.Context, id string, status record.Status, values map[string]any) (*CostCenter, error) {
	return store.costCenters.Insert(ctx, id, status, values)
}

func (store *PostgresStore) Update(ctx context.Context, id string, claimed int, values map[string]any) (*CostCenter, error) {
	return store.costCenters.Update(ctx, id, claimed, values)
}

func (store *PostgresStore) Delete(ctx context.Context, id string, claimed int) error {
	return store.costCenters.SoftDelete(ctx, id, claimed)
}

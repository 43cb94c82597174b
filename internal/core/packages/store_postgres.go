// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package packages

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

const Resource = "Package"

var Table = postgres.Table{
	Name:     schema.CatalogPackage.Table,
	Resource: Resource,
	Source: pagination.Source{
		Table: schema.CatalogPackage.Table,
		Fields: map[string]string{
			"id":          postgres.ColID,
			"name":        schema.CatalogPackage.Name,
			"code":        schema.CatalogPackage.Code,
			"description": schema.CatalogPackage.Description,
			"priceCents":  schema.CatalogPackage.PriceCents,
			"quota":       schema.CatalogPackage.Quota,
			"version":     postgres.ColVersion,
			"status":      postgres.ColStatus,
			"createdAt":   postgres.ColCreatedAt,
			"updatedAt":   postgres.ColUpdatedAt,
		},
		Columns:          schema.CatalogPackage.Columns(),
		SearchColumns:    []string{schema.CatalogPackage.Name, schema.CatalogPackage.Code},
		StatusColumn:     postgres.ColStatus,
		SoftDeleteColumn: postgres.ColDeletedAt,
	},
}

type PostgresStore struct {
	packages *postgres.Versioned[Package]
}

func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{packages: postgres.NewVersioned[Package](db, Table)}
}

func (store *PostgresStore) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Package], error) {
	return store.packages.List(ctx, filter)
}

func (store *PostgresStore) Get(ctx context.Context, id string) (*Package, error) {
	return store.packages.Find(ctx, id)
}

func (store *PostgresStore) Create(ctx context.Context, id string, status record.Status, values map[string]any) (*Package, error) {
	return store.packages.Insert(ctx, id, status, values)
}

func (store *PostgresStore) Update(ctx context.Context, id string, claimed int, values map[string]any) (*Package, error) {
	return store.packages.Update(ctx, id, claimed, values)
}

func (store *PostgresStore) Delete(ctx context.Context, id string, claimed int) error {
	return store.packages.SoftDelete(ctx, id, claimed)
}

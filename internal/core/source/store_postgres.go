// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

const Resource = "Source"

var Table = postgres.Table{
	Name:     schema.CatalogSource.Table,
	Resource: Resource,
	Source: pagination.Source{
		Table: schema.CatalogSource.Table,
		Fields: map[string]string{
			"id":        postgres.ColID,
			"name":      schema.CatalogSource.Name,
			"code":      schema.CatalogSource.Code,
			"url":       schema.CatalogSource.URL,
			"kind":      schema.CatalogSource.Kind,
			"version":   postgres.ColVersion,
			"status":    postgres.ColStatus,
			"createdAt": postgres.ColCreatedAt,
			"updatedAt": postgres.ColUpdatedAt,
		},
		Columns:          schema.CatalogSource.Columns(),
		SearchColumns:    []string{schema.CatalogSource.Name, schema.CatalogSource.Code},
		StatusColumn:     postgres.ColStatus,
		SoftDeleteColumn: postgres.ColDeletedAt,
	},
}

type PostgresStore struct {
	sources *postgres.Versioned[Source]
}

func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{sources: postgres.NewVersioned[Source](db, Table)}
}

func (store *PostgresStore) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Source], error) {
	return store.sources.List(ctx, filter)
}

func (store *PostgresStore) Get(ctx context.Context, id string) (*Source, error) {
	return store.sources.Find(ctx, id)
}

func (store *PostgresStore) GetByCode(ctx context.Context, code string) (*Source, error) {
	return store.sources.FindBy(ctx, sq.Eq{schema.CatalogSource.Code: code})
}

func (store *PostgresStore) Create(ctx context.Context, id string, status record.Status, values map[string]any) (*Source, error) {
	return store.sources.Insert(ctx, id, status, values)
}

func (store *PostgresStore) Update(ctx context.Context, id string, claimed int, values map[string]any) (*Source, error) {
	return store.sources.Update(ctx, id, claimed, values)
}

func (store *PostgresStore) Delete(ctx context.Context, id string, claimed int) error {
	return store.sources.SoftDelete(ctx, id, claimed)
}

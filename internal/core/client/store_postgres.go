// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/postgres"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

const Resource = "Client"

var Table = postgres.Table{
	Name:     schema.TenancyClient.Table,
	Resource: Resource,
	Source: pagination.Source{
		Table: schema.TenancyClient.Table,
		Fields: map[string]string{
			"id":        postgres.ColID,
			"name":      schema.TenancyClient.Name,
			"taxId":     schema.TenancyClient.TaxID,
			"email":     schema.TenancyClient.Email,
			"phone":     schema.TenancyClient.Phone,
			"version":   postgres.ColVersion,
			"status":    postgres.ColStatus,
			"createdAt": postgres.ColCreatedAt,
			"updatedAt": postgres.ColUpdatedAt,
		},
		Columns:          schema.TenancyClient.Columns(),
		SearchColumns:    []string{schema.TenancyClient.Name, schema.TenancyClient.TaxID, schema.TenancyClient.Email},
		StatusColumn:     postgres.ColStatus,
		SoftDeleteColumn: postgres.ColDeletedAt,
	},
}

type PostgresStore struct {
	clients *postgres.Versioned[Client]
}

func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{clients: postgres.NewVersioned[Client](db, Table)}
}

func (store *PostgresStore) List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Client], error) {
	return store.clients.List(ctx, filter)
}

func (store *PostgresStore) Get(ctx context.Context, id string) (*Client, error) {
	return store.clients.Find(ctx, id)
}

func (store *PostgresStore) Create(ctx context.Context, id string, status record.Status, values map[string]any) (*Client, error) {
	return store.clients.Insert(ctx, id, status, values)
}

func (store *PostgresStore) Update(ctx context.Context, id string, claimed int, values map[string]any) (*Client, error) {
	return store.clients.Update(ctx, id, claimed, values)
}

func (store *PostgresStore) Delete(ctx context.Context, id string, claimed int) error {
	return store.clients.SoftDelete(ctx, id, claimed)
}

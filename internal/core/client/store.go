// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

type Store interface {
	List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Client], error)
	Get(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, id string, status record.Status, values map[string]any) (*Client, error)
	Update(ctx context.Context, id string, claimed int, values map[string]any) (*Client, error)
	Delete(ctx context.Context, id string, claimed int) error
}

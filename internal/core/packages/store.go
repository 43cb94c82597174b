// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package packages

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

type Store interface {
	List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Package], error)
	Get(ctx context.Context, id string) (*Package, error)
	Create(ctx context.Context, id string, status record.Status, values map[string]any) (*Package, error)
	Update(ctx context.Context, id string, claimed int, values map[string]any) (*Package, error)
	Delete(ctx context.Context, id string, claimed int) error
}

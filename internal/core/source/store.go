// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"

	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

type Store interface {
	List(ctx context.Context, filter pagination.Filter) (*pagination.Result[Source], error)
	Get(ctx context.Context, id string) (*Source, error)
	GetByCode(ctx context.Context, code string) (*Source, error)
	Create(ctx context.Context, id string, status record.Status, values map[string]any) (*Source, error)
	Update(ctx context.Context, id string, claimed int, values map[string]any) (*Source, error)
	Delete(ctx context.Context, id string, claimed int) error
}

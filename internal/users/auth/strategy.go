// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
)

// localStrategy authenticates with email and password.
type localStrategy struct {
	service *Service
}

func (strategy *localStrategy) Name() string { return StrategyLocal }

func (strategy *localStrategy) Authenticate(ctx context.Context, credentials Credentials) (*Session, error) {
	if credentials.Email == "" || credentials.Password == "" {
		return nil, strategy.service.invalidCredentials(ctx)
	}
	return strategy.service.Login(ctx, credentials.Email, credentials.Password)
}

// refreshStrategy authenticates with a refresh token.
type refreshStrategy struct {
	service *Service
}

func (strategy *refreshStrategy) Name() string { return StrategyRefresh }

func (strategy *refreshStrategy) Authenticate(ctx context.Context, credentials Credentials) (*Session, error) {
	if credentials.RefreshToken == "" {
		ctxutil.GetLogger(ctx).Info("refresh_rejected", slog.String("reason", "missing_token"))
		return nil, strategy.service.invalidRefresh(ctx)
	}
	return strategy.service.Refresh(ctx, credentials.RefreshToken)
}

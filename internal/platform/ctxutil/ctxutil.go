// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil stores and reads the request-scoped values the middleware chain
attaches: request id, logger, caller claims and negotiated locale.

Readers never fail. A missing value yields its zero value, except the logger
which falls back to [slog.Default].
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/backoffice/internal/platform/ctxkey"
	"github.com/taibuivan/backoffice/internal/platform/sec"
)

func lookup[T any](ctx context.Context, key any) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// # Request Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the id assigned by the RequestID middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, ctxkey.KeyRequestID)
	return id
}

// # Structured Logging

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, already tagged with the request id.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := lookup[*slog.Logger](ctx, ctxkey.KeyLogger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Caller

func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// GetAuthUser returns the verified access token claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := lookup[*sec.AuthClaims](ctx, ctxkey.KeyUser)
	return claims
}

// # Localization

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLocale, locale)
}

// GetLocale returns the locale negotiated from Accept-Language, or "".
func GetLocale(ctx context.Context) string {
	locale, _ := lookup[string](ctx, ctxkey.KeyLocale)
	return locale
}

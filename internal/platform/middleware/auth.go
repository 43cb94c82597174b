// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/respond"
	"github.com/taibuivan/backoffice/internal/platform/sec"
)

// # Interfaces

// TokenVerifier defines the interface for verifying access tokens.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// SessionChecker re-validates a token's holder against the stored account.
type SessionChecker interface {
	CheckSession(ctx context.Context, claims *sec.AuthClaims) error
}

// # Authentication

/*
Authenticate attempts to extract and verify a Bearer token from the request.

If valid, the claims are injected into the context and the request logger is
enriched with the user id. If missing or invalid, the request continues as a
guest; RequireAuth decides whether that is acceptable.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Authorization

// RequireAuth rejects requests that carry no valid access token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

/*
RequireActiveAccount re-checks the token holder against the store on every
request, so blocking, deactivating or editing a user takes effect before the
access token expires.
*/
func RequireActiveAccount(checker SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if err := checker.CheckSession(request.Context(), claims); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

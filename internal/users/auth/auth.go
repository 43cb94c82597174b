// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the session lifecycle of backoffice users.

A session is a pair of HS256 tokens. The access token is short-lived and is
verified on every request; the refresh token is long-lived and only mints new
pairs. Each account holds a single refresh token, stored as a SHA-256 digest
on its row and rotated with a compare-and-set so concurrent refreshes of the
same token produce exactly one new session.

Architecture:

  - Strategy: "local" (email and password) and "jwt-refresh" (refresh token)
    behind one interface, selected by name.
  - Service: Login, Refresh, Validate, Logout and ChangePassword.
  - Handler: JSON endpoints plus the HttpOnly refresh cookie.

Account state (blocked, inactive, deleted) is checked by the account guard on
login and refresh, and on every authenticated request by RequireActiveAccount.
*/
package auth

import (
	"context"
	"time"

	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/account"
)

// # Strategy Names

const (
	// StrategyLocal authenticates with email and password.
	StrategyLocal = "local"

	// StrategyRefresh authenticates with a refresh token.
	StrategyRefresh = "jwt-refresh"
)

// # Contracts

// TokenIssuer signs and verifies session tokens. [sec.TokenService] implements it.
type TokenIssuer interface {
	GenerateAccessToken(identity sec.Identity) (string, time.Time, error)
	GenerateRefreshToken(identity sec.Identity) (string, time.Time, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
	VerifyRefreshToken(token string) (*sec.AuthClaims, error)
}

// Strategy turns one kind of credential into a new session.
type Strategy interface {
	// Name is the identifier the strategy is selected by.
	Name() string

	// Authenticate verifies credentials and issues a session.
	Authenticate(ctx context.Context, credentials Credentials) (*Session, error)
}

// # Domain Types

// Credentials carries whatever a strategy needs. Unused fields stay empty.
type Credentials struct {
	Email        string
	Password     string
	RefreshToken string
}

// Session is a freshly issued token pair.
type Session struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *account.User
}

// Validation is the outcome of checking an access token.
//
// User is the decoded payload and is only set when the token is valid.
type Validation struct {
	TokenIsValid bool            `json:"tokenIsValid"`
	User         *sec.AuthClaims `json:"user,omitempty"`
}

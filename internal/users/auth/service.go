// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
	"github.com/taibuivan/backoffice/internal/platform/metrics"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/account"
)

// Service implements the session use cases.
//
// # Review Process
//
// This service is critical for security. Changes to the login failure policy
// or to refresh rotation must keep both generic: an unknown email and a wrong
// password are indistinguishable to the caller.
type Service struct {
	accounts    account.Store
	tokens      TokenIssuer
	maxAttempts int
	strategies  map[string]Strategy
}

// NewService constructs the session [Service] and registers its strategies.
func NewService(accounts account.Store, tokens TokenIssuer, maxAttempts int) *Service {
	service := &Service{
		accounts:    accounts,
		tokens:      tokens,
		maxAttempts: maxAttempts,
	}

	service.strategies = map[string]Strategy{
		StrategyLocal:   &localStrategy{service: service},
		StrategyRefresh: &refreshStrategy{service: service},
	}
	return service
}

// # Strategy Selection

// Strategy returns the strategy registered under name.
func (service *Service) Strategy(name string) (Strategy, error) {
	strategy, ok := service.strategies[name]
	if !ok {
		return nil, apperr.ValidationError("Unknown authentication strategy",
			apperr.FieldError{Field: "strategy", Message: fmt.Sprintf("%q is not supported", name)})
	}
	return strategy, nil
}

// Authenticate runs the strategy registered under name.
func (service *Service) Authenticate(ctx context.Context, name string, credentials Credentials) (*Session, error) {
	strategy, err := service.Strategy(name)
	if err != nil {
		return nil, err
	}
	return strategy.Authenticate(ctx, credentials)
}

// # Login

/*
Login verifies an email and password and opens a new session.

Description: The password is checked before the account state, and every
credential failure returns the same INVALID_CREDENTIALS, so the response never
reveals whether an email is registered. Only a caller holding the right
password learns that the account is blocked or inactive. Each wrong password
on a live account counts towards the lockout threshold.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *Session: The issued token pair
  - error: INVALID_CREDENTIALS, USER_BLOCKED, USER_INACTIVE or storage failures
*/
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	logger := ctxutil.GetLogger(ctx)
	email = strings.TrimSpace(email)

	user, err := service.accounts.LookupByEmail(ctx, email)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}

		sec.BurnPasswordCheck(password)
		logger.Info("login_failed", slog.String("reason", "unknown_email"))
		return nil, service.invalidCredentials(ctx)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		logger.Info("login_failed",
			slog.String("reason", "wrong_password"),
			slog.String("user_id", user.ID),
		)
		if err := service.countFailure(ctx, user); err != nil {
			return nil, err
		}
		return nil, service.invalidCredentials(ctx)
	}

	if err := account.EnsureUsable(ctx, user, ctxutil.GetLocale(ctx)); err != nil {
		metrics.LoginAttempts.WithLabelValues("guard_rejected").Inc()
		logger.Info("login_rejected", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, err
	}

	session, err := service.issue(user)
	if err != nil {
		return nil, err
	}

	if err := service.accounts.RecordLogin(ctx, user.ID, sec.HashToken(session.RefreshToken)); err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.Info("login_succeeded", slog.String("user_id", user.ID))

	return session, nil
}

// countFailure registers a wrong password against a live, unblocked account.
func (service *Service) countFailure(ctx context.Context, user *account.User) error {
	if user.IsDeleted() || user.Blocked {
		return nil
	}

	attempts, blocked, err := service.accounts.RegisterFailedLogin(ctx, user.ID, service.maxAttempts)
	if err != nil {
		return err
	}

	if blocked {
		ctxutil.GetLogger(ctx).Warn("account_blocked_after_failed_logins",
			slog.String("user_id", user.ID),
			slog.Int("attempts", attempts),
		)
	}
	return nil
}

func (service *Service) invalidCredentials(ctx context.Context) error {
	metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
	return apperr.InvalidCredentials(i18n.T(ctx, i18n.KeyInvalidCredentials))
}

// # Refresh

/*
Refresh exchanges a refresh token for a new session.

Description: The token must carry a valid refresh signature and match the
digest stored on the account. The stored digest is swapped with a
compare-and-set, so when two requests present the same token only the first
one gets a session and the other fails with INVALID_REFRESH_TOKEN. The new
pair carries the account's current version.

Returns:
  - *Session: The rotated token pair
  - error: INVALID_REFRESH_TOKEN, account guard failures or storage failures
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	logger := ctxutil.GetLogger(ctx)

	claims, err := service.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		logger.Info("refresh_rejected", slog.String("reason", "invalid_token"))
		return nil, service.invalidRefresh(ctx)
	}

	user, err := service.accounts.LookupByID(ctx, claims.UserID)
	if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}
	if user == nil {
		logger.Info("refresh_rejected", slog.String("reason", "unknown_subject"))
		return nil, service.invalidRefresh(ctx)
	}

	if err := account.EnsureUsable(ctx, user, ctxutil.GetLocale(ctx)); err != nil {
		metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if user.RefreshTokenHash == nil || !sec.TokenMatches(refreshToken, *user.RefreshTokenHash) {
		logger.Info("refresh_rejected", slog.String("reason", "token_mismatch"), slog.String("user_id", user.ID))
		return nil, service.invalidRefresh(ctx)
	}

	session, err := service.issue(user)
	if err != nil {
		return nil, err
	}

	rotated, err := service.accounts.RotateRefreshToken(ctx, user.ID, *user.RefreshTokenHash, sec.HashToken(session.RefreshToken))
	if err != nil {
		return nil, err
	}
	if !rotated {
		logger.Info("refresh_rejected", slog.String("reason", "lost_rotation"), slog.String("user_id", user.ID))
		return nil, service.invalidRefresh(ctx)
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	logger.Info("refresh_succeeded", slog.String("user_id", user.ID))

	return session, nil
}

func (service *Service) invalidRefresh(ctx context.Context) error {
	metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
	return apperr.InvalidRefreshToken(i18n.T(ctx, i18n.KeyInvalidRefreshToken))
}

// # Validate & Logout

// Validate checks an access token's signature and expiry. Account state is
// not consulted.
func (service *Service) Validate(accessToken string) Validation {
	claims, err := service.tokens.VerifyToken(accessToken)
	if err != nil {
		return Validation{TokenIsValid: false}
	}
	return Validation{TokenIsValid: true, User: claims}
}

// Logout drops the user's refresh token. Access tokens expire on their own.
func (service *Service) Logout(ctx context.Context, userID string) error {
	if err := service.accounts.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Info("logout_succeeded", slog.String("user_id", userID))
	return nil
}

// # Password

/*
ChangePassword replaces the caller's password after checking the current one.

Description: The write bumps the account version and clears the refresh
token, so every session issued before the change stops working.

Returns:
  - error: VALIDATION_ERROR for a wrong current password, STALE_VERSION when
    the account changed concurrently
*/
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.accounts.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.ValidationError(i18n.T(ctx, i18n.KeyWrongPassword),
			apperr.FieldError{Field: "currentPassword", Message: "is incorrect"})
	}

	passwordHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if _, err := service.accounts.Update(ctx, user.ID, user.Version, map[string]any{
		schema.UserAccount.Password:         passwordHash,
		schema.UserAccount.RefreshTokenHash: nil,
	}); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Info("password_changed", slog.String("user_id", user.ID))
	return nil
}

// # Helpers

func (service *Service) issue(user *account.User) (*Session, error) {
	identity := user.Identity()

	accessToken, accessExpiresAt, err := service.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_access_token_failed: %w", err))
	}

	refreshToken, refreshExpiresAt, err := service.tokens.GenerateRefreshToken(identity)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_token_failed: %w", err))
	}

	return &Session{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  user,
	}, nil
}

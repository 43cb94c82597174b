// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/i18n"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/pkg/ids"
)

/*
EnsureUsable decides whether an account may authenticate or act.

Description: Checks run in a fixed order and the first failure wins:
missing, blocked, then inactive or deleted. Messages are rendered in locale
with the account email interpolated. A missing account is logged with a
correlation id (the request id when there is one) so support can find it.

Parameters:
  - ctx: context.Context
  - user: *User (nil when the lookup found nothing)
  - locale: string

Returns:
  - error: USER_NOT_FOUND, USER_BLOCKED, USER_INACTIVE or nil
*/
func EnsureUsable(ctx context.Context, user *User, locale string) error {
	if user == nil || user.ID == "" {
		correlationID := ctxutil.GetRequestID(ctx)
		if correlationID == "" {
			correlationID = ids.Correlation()
		}

		ctxutil.GetLogger(ctx).Warn("account_guard_user_not_found",
			slog.String("correlation_id", correlationID),
		)
		return apperr.UserNotFound(i18n.Lookup(locale, i18n.KeyUserNotFound))
	}

	if user.Blocked {
		return apperr.UserBlocked(i18n.Lookup(locale, i18n.KeyUserBlocked, user.Email))
	}

	if user.IsDeleted() || user.Status != record.StatusActive {
		return apperr.UserInactive(i18n.Lookup(locale, i18n.KeyUserInactive, user.Email))
	}

	return nil
}

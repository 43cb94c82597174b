// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bootstrap implements the startup connection policy for backing stores.

A store is dialled a bounded number of times with a fixed pause between
attempts. Every attempt and every failure is logged. When the last attempt
fails the caller receives a STORE_UNAVAILABLE error and is expected to stop the
process; the policy is never applied to steady-state queries.
*/
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/constants"
)

// Policy controls how many times a store is dialled and how long to wait in between.
type Policy struct {
	Attempts int
	Delay    time.Duration

	// Sleep waits between attempts. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, delay time.Duration) error
}

// DefaultPolicy returns three attempts five seconds apart.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: constants.StoreConnectAttempts,
		Delay:    constants.StoreConnectDelay,
	}
}

// Connect dials a store under policy and returns the first successful connection.
//
// # Parameters
//   - store: Human-readable store name used in logs ("postgres", "redis").
//   - dial: Opens and verifies one connection. It must release resources on failure.
//
// # Returns
//   - The connected handle, or an [apperr.StoreUnavailable] wrapping the last failure.
func Connect[T any](ctx context.Context, policy Policy, logger *slog.Logger, store string, dial func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := max(policy.Attempts, 1)
	delay := policy.Delay
	if delay <= 0 {
		delay = constants.StoreConnectDelay
	}

	sleep := policy.Sleep
	if sleep == nil {
		sleep = wait
	}

	// One retry fewer than attempts: the first dial is not a retry.
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))

	var lastErr error
	for attempt := 1; ; attempt++ {
		logger.Info("store_connect_attempt",
			slog.String("store", store),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
		)

		handle, err := dial(ctx)
		if err == nil {
			logger.Info("store_connected", slog.String("store", store), slog.Int("attempt", attempt))
			return handle, nil
		}

		lastErr = err
		logger.Error("store_connect_failed",
			slog.String("store", store),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Any("error", err),
		)

		pause, stop := backoff.Next()
		if stop {
			break
		}

		if err := sleep(ctx, pause); err != nil {
			return zero, apperr.StoreUnavailable(fmt.Errorf("bootstrap: %s: %w", store, err))
		}
	}

	return zero, apperr.StoreUnavailable(fmt.Errorf("bootstrap: %s unreachable after %d attempts: %w", store, attempts, lastErr))
}

func wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

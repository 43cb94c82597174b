// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/database/schema"
	"github.com/taibuivan/backoffice/internal/platform/record"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/account"
	"github.com/taibuivan/backoffice/internal/users/auth"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

// # Fakes

// accountFake keeps accounts in memory with the same conditional-write
// semantics as the PostgreSQL store.
type accountFake struct {
	mu    sync.Mutex
	users map[string]*account.User
}

func (fake *accountFake) get(id string) (*account.User, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	user, ok := fake.users[id]
	if !ok {
		return nil, apperr.NotFound(account.Resource)
	}
	copied := *user
	return &copied, nil
}

func (fake *accountFake) FindByID(_ context.Context, id string) (*account.User, error) {
	user, err := fake.get(id)
	if err != nil || user.IsDeleted() {
		return nil, apperr.NotFound(account.Resource)
	}
	return user, nil
}

func (fake *accountFake) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	user, err := fake.LookupByEmail(ctx, email)
	if err != nil || user.IsDeleted() {
		return nil, apperr.NotFound(account.Resource)
	}
	return user, nil
}

func (fake *accountFake) LookupByID(_ context.Context, id string) (*account.User, error) {
	return fake.get(id)
}

func (fake *accountFake) LookupByEmail(_ context.Context, email string) (*account.User, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for _, user := range fake.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound(account.Resource)
}

func (fake *accountFake) List(context.Context, pagination.Filter) (*pagination.Result[account.User], error) {
	return &pagination.Result[account.User]{}, nil
}

func (fake *accountFake) Role(context.Context, string) (*account.RoleInfo, error) {
	return nil, apperr.ValidationError("Invalid role")
}

func (fake *accountFake) Create(context.Context, string, record.Status, map[string]any) (*account.User, error) {
	return nil, apperr.Internal(nil)
}

func (fake *accountFake) Update(ctx context.Context, id string, claimed int, values map[string]any) (*account.User, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	user, ok := fake.users[id]
	if !ok || user.IsDeleted() {
		return nil, apperr.NotFound(account.Resource)
	}
	if err := record.CheckVersion(ctx, account.Resource, user.Version, claimed); err != nil {
		return nil, err
	}

	if hash, ok := values[schema.UserAccount.Password].(string); ok {
		user.PasswordHash = hash
	}
	if _, ok := values[schema.UserAccount.RefreshTokenHash]; ok {
		user.RefreshTokenHash = nil
	}
	user.Version++

	copied := *user
	return &copied, nil
}

func (fake *accountFake) SoftDelete(context.Context, string, int) error { return nil }

func (fake *accountFake) RegisterFailedLogin(_ context.Context, id string, maxAttempts int) (int, bool, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	user := fake.users[id]
	user.LoginAttempts++
	if !user.Blocked && user.LoginAttempts >= maxAttempts {
		user.Blocked = true
		user.Version++
	}
	return user.LoginAttempts, user.Blocked, nil
}

func (fake *accountFake) RecordLogin(_ context.Context, id, refreshHash string) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	user := fake.users[id]
	user.LoginAttempts = 0
	user.RefreshTokenHash = &refreshHash
	return nil
}

func (fake *accountFake) RotateRefreshToken(_ context.Context, id, oldHash, newHash string) (bool, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	user := fake.users[id]
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != oldHash {
		return false, nil
	}
	user.RefreshTokenHash = &newHash
	return true, nil
}

func (fake *accountFake) ClearRefreshToken(_ context.Context, id string) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	fake.users[id].RefreshTokenHash = nil
	return nil
}

// # Fixtures

const password = "Secret123!"

var passwordHash = func() string {
	hash, err := sec.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}()

func newUser(id string) *account.User {
	return &account.User{
		Versioned:    record.Versioned{ID: id, Version: 1, Status: record.StatusActive},
		Email:        id + "@example.com",
		PasswordHash: passwordHash,
		Role:         sec.RoleAdmin,
	}
}

func newTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService("access-secret", "refresh-secret", "backoffice-test", time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens
}

func newAuthService(t *testing.T, users ...*account.User) (*auth.Service, *accountFake) {
	fake := &accountFake{users: map[string]*account.User{}}
	for _, user := range users {
		fake.users[user.ID] = user
	}
	return auth.NewService(fake, newTokens(t), 3), fake
}

// # Tests

/*
TestLogin_Success verifies a login issues both tokens and stores the refresh digest.
*/
func TestLogin_Success(t *testing.T) {
	user := newUser("ana")
	user.LoginAttempts = 2
	service, fake := newAuthService(t, user)

	session, err := service.Login(context.Background(), "ana@example.com", password)
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)
	assert.Equal(t, "ana", session.User.ID)

	stored, _ := fake.get("ana")
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, sec.HashToken(session.RefreshToken), *stored.RefreshTokenHash)
	assert.Zero(t, stored.LoginAttempts)
	assert.Equal(t, 1, stored.Version)

	validation := service.Validate(session.AccessToken)
	require.True(t, validation.TokenIsValid)
	assert.Equal(t, "ana", validation.User.UserID)
	assert.Equal(t, 1, validation.User.Version)
}

/*
TestLogin_GenericFailure verifies unknown emails and wrong passwords are indistinguishable.
*/
func TestLogin_GenericFailure(t *testing.T) {
	service, _ := newAuthService(t, newUser("ana"))

	_, unknown := service.Login(context.Background(), "ghost@example.com", password)
	_, wrong := service.Login(context.Background(), "ana@example.com", "wrong-password")

	assert.True(t, apperr.HasCode(unknown, apperr.CodeInvalidCredentials))
	assert.True(t, apperr.HasCode(wrong, apperr.CodeInvalidCredentials))
	assert.Equal(t, unknown.Error(), wrong.Error())
}

/*
TestLogin_Lockout verifies repeated wrong passwords block the account.
*/
func TestLogin_Lockout(t *testing.T) {
	service, fake := newAuthService(t, newUser("ana"))
	ctx := context.Background()

	for range 3 {
		_, err := service.Login(ctx, "ana@example.com", "wrong-password")
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	}

	stored, _ := fake.get("ana")
	assert.True(t, stored.Blocked)
	assert.Equal(t, 2, stored.Version)

	// Further failures do not keep counting on a blocked account.
	_, err := service.Login(ctx, "ana@example.com", "wrong-password")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	stored, _ = fake.get("ana")
	assert.Equal(t, 3, stored.LoginAttempts)

	_, err = service.Login(ctx, "ana@example.com", password)
	assert.True(t, apperr.HasCode(err, apperr.CodeUserBlocked))
	assert.Contains(t, err.Error(), "ana@example.com")
}

/*
TestLogin_Guard verifies inactive and deleted accounts cannot log in with the right password.
*/
func TestLogin_Guard(t *testing.T) {
	inactive := newUser("inactive")
	inactive.Status = record.StatusInactive

	deleted := newUser("deleted")
	now := time.Now()
	deleted.DeletedAt = &now

	service, _ := newAuthService(t, inactive, deleted)

	_, err := service.Login(context.Background(), "inactive@example.com", password)
	assert.True(t, apperr.HasCode(err, apperr.CodeUserInactive))

	_, err = service.Login(context.Background(), "deleted@example.com", password)
	assert.True(t, apperr.HasCode(err, apperr.CodeUserInactive))
}

/*
TestRefresh_Rotation verifies a refresh rotates the token and retires the old one.
*/
func TestRefresh_Rotation(t *testing.T) {
	service, _ := newAuthService(t, newUser("ana"))
	ctx := context.Background()

	login, err := service.Login(ctx, "ana@example.com", password)
	require.NoError(t, err)

	refreshed, err := service.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = service.Refresh(ctx, login.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken))

	_, err = service.Refresh(ctx, refreshed.AccessToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken))

	_, err = service.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

/*
TestRefresh_ConcurrentLoser verifies two concurrent refreshes of one token yield exactly one session.
*/
func TestRefresh_ConcurrentLoser(t *testing.T) {
	service, _ := newAuthService(t, newUser("ana"))
	ctx := context.Background()

	login, err := service.Login(ctx, "ana@example.com", password)
	require.NoError(t, err)

	const callers = 2
	errs := make([]error, callers)

	var start, done sync.WaitGroup
	start.Add(1)
	for i := range callers {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			_, errs[i] = service.Refresh(ctx, login.RefreshToken)
		}()
	}
	start.Done()
	done.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken), "got %v", err)
	}
	assert.Equal(t, 1, successes)
}

/*
TestRefresh_GuardAndLogout verifies blocked accounts and logged out sessions cannot refresh.
*/
func TestRefresh_GuardAndLogout(t *testing.T) {
	service, fake := newAuthService(t, newUser("ana"), newUser("bob"))
	ctx := context.Background()

	ana, err := service.Login(ctx, "ana@example.com", password)
	require.NoError(t, err)
	bob, err := service.Login(ctx, "bob@example.com", password)
	require.NoError(t, err)

	fake.users["ana"].Blocked = true
	_, err = service.Refresh(ctx, ana.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUserBlocked))

	require.NoError(t, service.Logout(ctx, "bob"))
	_, err = service.Refresh(ctx, bob.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken))
}

/*
TestRefresh_UnknownSubject verifies tokens without a live subject or with no
token at all are reported as invalid refresh tokens.
*/
func TestRefresh_UnknownSubject(t *testing.T) {
	service, fake := newAuthService(t, newUser("ana"))
	ctx := context.Background()

	session, err := service.Login(ctx, "ana@example.com", password)
	require.NoError(t, err)

	fake.mu.Lock()
	delete(fake.users, "ana")
	fake.mu.Unlock()

	_, err = service.Refresh(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken), "got %v", err)

	_, err = service.Authenticate(ctx, auth.StrategyRefresh, auth.Credentials{})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken), "got %v", err)
}

/*
TestValidate verifies only signature and expiry are checked.
*/
func TestValidate(t *testing.T) {
	service, fake := newAuthService(t, newUser("ana"))

	session, err := service.Login(context.Background(), "ana@example.com", password)
	require.NoError(t, err)

	// Account state is not part of token validation.
	fake.users["ana"].Blocked = true
	assert.True(t, service.Validate(session.AccessToken).TokenIsValid)

	invalid := service.Validate(session.RefreshToken)
	assert.False(t, invalid.TokenIsValid)
	assert.Nil(t, invalid.User)

	assert.False(t, service.Validate("not-a-token").TokenIsValid)
}

/*
TestChangePassword verifies the version bump and the end of the refresh session.
*/
func TestChangePassword(t *testing.T) {
	service, fake := newAuthService(t, newUser("ana"))
	ctx := context.Background()

	session, err := service.Login(ctx, "ana@example.com", password)
	require.NoError(t, err)

	err = service.ChangePassword(ctx, "ana", "wrong-password", "N3w-Secret!")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	require.NoError(t, service.ChangePassword(ctx, "ana", password, "N3w-Secret!"))

	stored, _ := fake.get("ana")
	assert.Equal(t, 2, stored.Version)
	assert.Nil(t, stored.RefreshTokenHash)

	_, err = service.Refresh(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRefreshToken))

	_, err = service.Login(ctx, "ana@example.com", "N3w-Secret!")
	assert.NoError(t, err)

	err = service.ChangePassword(ctx, "ana", "N3w-Secret!", strings.Repeat("x", 80))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestStrategy verifies strategies are selected by name.
*/
func TestStrategy(t *testing.T) {
	service, _ := newAuthService(t, newUser("ana"))
	ctx := context.Background()

	local, err := service.Strategy(auth.StrategyLocal)
	require.NoError(t, err)
	assert.Equal(t, auth.StrategyLocal, local.Name())

	refresh, err := service.Strategy(auth.StrategyRefresh)
	require.NoError(t, err)
	assert.Equal(t, auth.StrategyRefresh, refresh.Name())

	_, err = service.Strategy("saml")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	session, err := service.Authenticate(ctx, auth.StrategyLocal, auth.Credentials{Email: "ana@example.com", Password: password})
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, auth.StrategyRefresh, auth.Credentials{RefreshToken: session.RefreshToken})
	assert.NoError(t, err)

	_, err = service.Authenticate(ctx, auth.StrategyRefresh, auth.Credentials{})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

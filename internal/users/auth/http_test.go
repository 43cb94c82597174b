// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/constants"
	"github.com/taibuivan/backoffice/internal/platform/middleware"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/users/account"
	"github.com/taibuivan/backoffice/internal/users/auth"
)

type allowSessions struct{}

func (allowSessions) CheckSession(context.Context, *sec.AuthClaims) error { return nil }

type sessionBody struct {
	Data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		TokenType    string `json:"tokenType"`
	} `json:"data"`
}

func newAuthRouter(t *testing.T) (http.Handler, *accountFake) {
	t.Helper()

	tokens := newTokens(t)
	fake := &accountFake{users: map[string]*account.User{"ana": newUser("ana")}}

	service := auth.NewService(fake, tokens, 3)
	handler := auth.NewHandler(service, allowSessions{}, false)
	return middleware.Authenticate(tokens)(handler.Routes()), fake
}

func refreshCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.RefreshTokenCookieName {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_LoginRefreshLogout verifies the cookie-based session flow end to end.
*/
func TestHandler_LoginRefreshLogout(t *testing.T) {
	router, fake := newAuthRouter(t)

	// Login
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ana@example.com","password":"`+password+`"}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	var login sessionBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &login))
	assert.Equal(t, "Bearer", login.Data.TokenType)
	assert.NotContains(t, recorder.Body.String(), "passwordHash")

	cookie := refreshCookie(recorder)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, constants.RefreshTokenCookiePath, cookie.Path)
	assert.Equal(t, login.Data.RefreshToken, cookie.Value)

	// Refresh with the cookie
	request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var refreshed sessionBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &refreshed))
	assert.NotEqual(t, login.Data.RefreshToken, refreshed.Data.RefreshToken)

	// Replaying the first cookie fails
	request = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INVALID_REFRESH_TOKEN")

	// Logout needs the access token
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.Header.Set("Authorization", "Bearer "+refreshed.Data.AccessToken)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	cleared := refreshCookie(recorder)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	stored, _ := fake.get("ana")
	assert.Nil(t, stored.RefreshTokenHash)
}

/*
TestHandler_RefreshBody verifies non-browser clients can send the refresh token in the body.
*/
func TestHandler_RefreshBody(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ana@example.com","password":"`+password+`"}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	var login sessionBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &login))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/refresh",
		strings.NewReader(`{"refreshToken":"`+login.Data.RefreshToken+`"}`)))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeInvalidRefreshToken)
}

/*
TestHandler_Validate verifies the validation payload.
*/
func TestHandler_Validate(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/validate",
		strings.NewReader(`{"accessToken":"garbage"}`)))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"tokenIsValid":false}}`, recorder.Body.String())
}

/*
TestHandler_LoginFailures verifies the status codes of rejected logins.
*/
func TestHandler_LoginFailures(t *testing.T) {
	router, _ := newAuthRouter(t)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"Missing", `{"email":""}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Unknown", `{"email":"ghost@example.com","password":"x"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"Malformed", `{"email":`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tc.code)
		})
	}
}

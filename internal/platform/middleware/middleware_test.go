// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	"github.com/taibuivan/backoffice/internal/platform/middleware"
	"github.com/taibuivan/backoffice/internal/platform/respond"
	"github.com/taibuivan/backoffice/internal/platform/sec"
)

// # Fakes

type fakeVerifier struct {
	claims *sec.AuthClaims
}

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, sec.ErrInvalidToken
	}
	return verifier.claims, nil
}

type fakeChecker struct {
	err error
}

func (checker fakeChecker) CheckSession(context.Context, *sec.AuthClaims) error {
	return checker.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// # Tracing

/*
TestRequestID verifies that an incoming ID is echoed and a missing one is generated.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
}

// # Localization

/*
TestLocale verifies Accept-Language negotiation with fallback.
*/
func TestLocale(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"Spanish", "es-MX,es;q=0.9", "es"},
		{"English", "en-US", "en"},
		{"Unsupported", "ja", "en"},
		{"Missing", "", "en"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			handler := middleware.Locale("en")(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetLocale(request.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				request.Header.Set("Accept-Language", tc.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, tc.want, seen)
		})
	}
}

// # Authentication

/*
TestAuthenticate verifies that only valid bearer tokens populate the context.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u-1", Role: sec.RoleAdmin}
	var seen *sec.AuthClaims
	handler := middleware.Authenticate(fakeVerifier{claims: claims})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
	}))

	for _, header := range []string{"", "Basic good", "Bearer bad"} {
		seen = nil
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", header)
		handler.ServeHTTP(httptest.NewRecorder(), request)
		assert.Nil(t, seen, header)
	}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Same(t, claims, seen)
}

/*
TestRequireAuth verifies anonymous requests are rejected with 401.
*/
func TestRequireAuth(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeUnauthorized, decodeError(t, recorder).Code)
}

/*
TestRequireActiveAccount verifies that the session checker's verdict is enforced.
*/
func TestRequireActiveAccount(t *testing.T) {
	authed := func() *http.Request {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		return request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u-1"}))
	}

	t.Run("Blocked", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		middleware.RequireActiveAccount(fakeChecker{err: apperr.UserBlocked("User a@b.c is blocked")})(okHandler()).
			ServeHTTP(recorder, authed())

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, apperr.CodeUserBlocked, decodeError(t, recorder).Code)
	})

	t.Run("Active", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		middleware.RequireActiveAccount(fakeChecker{})(okHandler()).ServeHTTP(recorder, authed())
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		middleware.RequireActiveAccount(fakeChecker{})(okHandler()).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

// # Safety

/*
TestPanicRecovery verifies a panicking handler yields a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, apperr.CodeInternal, decodeError(t, recorder).Code)
}

/*
TestRateLimiter verifies the burst is enforced per IP.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 0.001, 2).Handler(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:1234"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

// # CORS

type envConfig bool

func (dev envConfig) IsDevelopment() bool { return bool(dev) }

/*
TestCORS verifies the origin allow-list outside development.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(envConfig(false), "https://admin.example.com")(okHandler())

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://admin.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://admin.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set("Origin", "https://evil.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

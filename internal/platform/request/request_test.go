// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/backoffice/internal/platform/apperr"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/backoffice/internal/platform/request"
	"github.com/taibuivan/backoffice/internal/platform/sec"
	"github.com/taibuivan/backoffice/internal/platform/validate"
)

func withParam(request *http.Request, key, value string) *http.Request {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

/*
TestDecodeJSON verifies bodies decode strictly.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &target))
	assert.Equal(t, "Acme", target.Name)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme","role":"ADMIN"}`))
	assert.ErrorIs(t, requestutil.DecodeJSON(request, &target), validate.ErrInvalidJSON)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, requestutil.DecodeJSON(request, &target), validate.ErrInvalidJSON)
}

/*
TestID verifies path identifiers must be UUIDs.
*/
func TestID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := requestutil.ID(withParam(request, "id", "0190a1b2-c3d4-7e5f-8a9b-0000000000a1"), "id")
	require.NoError(t, err)
	assert.Equal(t, "0190a1b2-c3d4-7e5f-8a9b-0000000000a1", id)

	_, err = requestutil.ID(withParam(request, "id", "42"), "id")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestVersion verifies the version query parameter is a positive integer.
*/
func TestVersion(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    int
		invalid bool
	}{
		{"present", "/?version=3", 3, false},
		{"missing", "/", 0, true},
		{"zero", "/?version=0", 0, true},
		{"text", "/?version=abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := requestutil.Version(httptest.NewRequest(http.MethodDelete, tt.target, nil))
			if tt.invalid {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, version)
		})
	}
}

/*
TestRequiredUserID verifies anonymous requests are rejected.
*/
func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := requestutil.RequiredUserID(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.Nil(t, requestutil.Claims(request))

	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u-1"}))
	userID, err := requestutil.RequiredUserID(request)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

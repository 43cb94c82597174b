// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/backoffice/internal/platform/constants"
	"github.com/taibuivan/backoffice/internal/platform/middleware"
	requestutil "github.com/taibuivan/backoffice/internal/platform/request"
	"github.com/taibuivan/backoffice/internal/platform/respond"
	"github.com/taibuivan/backoffice/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the session endpoints.
//
// # Scope
//
// Login, refresh and validate are public. Logout and change-password need an
// access token for a still-usable account.
type Handler struct {
	authService  *Service
	checker      middleware.SessionChecker
	secureCookie bool
}

// NewHandler constructs a new [Handler]. secureCookie should be false only in
// development over plain HTTP.
func NewHandler(service *Service, checker middleware.SessionChecker, secureCookie bool) *Handler {
	return &Handler{authService: service, checker: checker, secureCookie: secureCookie}
}

// Routes returns a [chi.Router] configured with the session routes.
//
// # Endpoints
//   - POST /login           : Opens a session with email and password.
//   - POST /refresh         : Rotates the refresh token.
//   - POST /validate        : Checks an access token.
//   - POST /logout          : Ends the caller's session.
//   - POST /change-password : Replaces the caller's password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/validate", handler.validate)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireActiveAccount(handler.checker))
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type validateRequest struct {
	AccessToken string `json:"accessToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type sessionResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         any    `json:"user,omitempty"`
}

// # Endpoints

/*
POST /api/v1/auth/login.

Description: Verifies credentials, returns the token pair and sets the refresh
token cookie.

Response:
  - 200: sessionResponse
  - 401: INVALID_CREDENTIALS
  - 403: USER_BLOCKED, USER_INACTIVE
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Authenticate(request.Context(), StrategyLocal, Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session, true)
}

/*
POST /api/v1/auth/refresh.

Description: Reads the refresh token from the cookie, or from the body for
non-browser clients, and rotates it.

Response:
  - 200: sessionResponse
  - 401: INVALID_REFRESH_TOKEN
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var token string

	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		token = cookie.Value
	}

	if token == "" && request.ContentLength != 0 {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		token = input.RefreshToken
	}

	session, err := handler.authService.Authenticate(request.Context(), StrategyRefresh, Credentials{RefreshToken: token})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session, false)
}

/*
POST /api/v1/auth/validate.

Description: Reports whether an access token is correctly signed and
unexpired, with its decoded payload. An invalid token is a normal 200 answer.
*/
func (handler *Handler) validate(writer http.ResponseWriter, request *http.Request) {
	var input validateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.authService.Validate(input.AccessToken))
}

/*
POST /api/v1/auth/logout.

Response:
  - 204: Session terminated and cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.cookie("", time.Time{}, -1))
	respond.NoContent(writer)
}

/*
POST /api/v1/auth/change-password.

Response:
  - 204: Password changed, every session of the account ended
  - 400: VALIDATION_ERROR, including a wrong current password
  - 409: STALE_VERSION
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("currentPassword", input.CurrentPassword).
		Password("newPassword", input.NewPassword).
		Custom("newPassword", input.NewPassword == input.CurrentPassword, "must differ from the current password")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.cookie("", time.Time{}, -1))
	respond.NoContent(writer)
}

// # Helpers

func (handler *Handler) writeSession(writer http.ResponseWriter, session *Session, withUser bool) {
	http.SetCookie(writer, handler.cookie(session.RefreshToken, session.RefreshTokenExpiresAt, 0))

	response := sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(session.AccessTokenExpiresAt) / time.Second),
	}
	if withUser {
		response.User = session.User
	}

	respond.OK(writer, response)
}

func (handler *Handler) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   handler.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

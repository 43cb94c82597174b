// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/backoffice/internal/platform/record"
	requestutil "github.com/taibuivan/backoffice/internal/platform/request"
	"github.com/taibuivan/backoffice/internal/platform/respond"
	"github.com/taibuivan/backoffice/internal/platform/validate"
	"github.com/taibuivan/backoffice/internal/users/access"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

// Handler implements the HTTP layer for user administration.
//
// # Security
//
// Routes expect RequireAuth and RequireActiveAccount to run first; the
// service performs the per-assignment authorization.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the user endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/me", handler.me)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Patch("/", handler.update)
		r.Delete("/", handler.delete)
		r.Get("/assignments", handler.assignments)
		r.Put("/assignments", handler.replaceAssignments)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Email       string         `json:"email"`
	Password    string         `json:"password"`
	RoleID      string         `json:"roleId"`
	ClientID    *string        `json:"clientId"`
	Status      record.Status  `json:"status"`
	Assignments []access.Grant `json:"assignments"`
}

type updateRequest struct {
	Version  int            `json:"version"`
	Email    *string        `json:"email"`
	Password *string        `json:"password"`
	RoleID   *string        `json:"roleId"`
	ClientID *string        `json:"clientId"`
	Status   *record.Status `json:"status"`
	Blocked  *bool          `json:"blocked"`
}

type assignmentsRequest struct {
	Version     int            `json:"version"`
	Assignments []access.Grant `json:"assignments"`
}

// # Endpoints

/*
GET /api/v1/users.

Description: Lists accounts visible to the caller (tenant-bound callers only
see their client's accounts).

Response:
  - 200: PaginatedResult<User>
  - 403: FORBIDDEN: Missing USER read grant
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.accountService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, result)
}

/*
POST /api/v1/users.

Request:
  - Body: createRequest

Response:
  - 201: Profile: Created account with its assignments
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Email already in use
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("email", input.Email, 254).
		Password("password", input.Password).
		UUID("roleId", input.RoleID).
		OptionalUUID("clientId", input.ClientID)
	if input.Status != "" {
		validator.Status("status", input.Status)
	}
	for _, grant := range input.Assignments {
		validator.Custom("assignments", !grant.Assignment.Valid(), string(grant.Assignment)+" is not a known assignment")
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Create(request.Context(), CreateInput{
		Email:    input.Email,
		Password: input.Password,
		RoleID:   input.RoleID,
		ClientID: input.ClientID,
		Status:   input.Status,
		Grants:   input.Assignments,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, profile)
}

/*
GET /api/v1/users/me.

Response:
  - 200: Profile: The caller's account and assignments
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.Me(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: Profile
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
PATCH /api/v1/users/{id}.

Description: Partial update. The body must carry the version the caller read.

Response:
  - 200: User: The account at its new version
  - 409: STALE_VERSION
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Version(input.Version).OptionalUUID("roleId", input.RoleID).OptionalUUID("clientId", input.ClientID)
	if input.Email != nil {
		validator.Email("email", *input.Email)
	}
	if input.Password != nil {
		validator.Password("password", *input.Password)
	}
	if input.Status != nil {
		validator.Status("status", *input.Status)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), id, UpdateInput{
		Version:  input.Version,
		Email:    input.Email,
		Password: input.Password,
		RoleID:   input.RoleID,
		ClientID: input.ClientID,
		Status:   input.Status,
		Blocked:  input.Blocked,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}?version=N.

Response:
  - 204: Deleted
  - 409: STALE_VERSION
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	version, err := requestutil.Version(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), id, version); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
GET /api/v1/users/{id}/assignments.
*/
func (handler *Handler) assignments(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	grants, err := handler.accountService.Assignments(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, grants)
}

/*
PUT /api/v1/users/{id}/assignments.

Description: Replaces the whole assignment set and bumps the account version,
which ends sessions issued before the change.

Response:
  - 200: {"version": N}
  - 409: STALE_VERSION
*/
func (handler *Handler) replaceAssignments(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input assignmentsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Version(input.Version).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	version, err := handler.accountService.ReplaceAssignments(request.Context(), id, input.Version, input.Assignments)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"version": version})
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package costcenter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/backoffice/internal/platform/request"
	"github.com/taibuivan/backoffice/internal/platform/respond"
	"github.com/taibuivan/backoffice/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCostCenters)
	router.Post("/", handler.createCostCenter)
	router.Get("/{id}", handler.getCostCenter)
	router.Patch("/{id}", handler.updateCostCenter)
	router.Delete("/{id}", handler.deleteCostCenter)
}

func (handler *Handler) listCostCenters(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.List(request.Context(), pagination.FromRequest(request), request.URL.Query().Get("clientId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, result)
}

func (handler *Handler) getCostCenter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createCostCenter(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateCostCenter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteCostCenter(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.Delete(request.Context(), id, version); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

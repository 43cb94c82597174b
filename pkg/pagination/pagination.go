// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the shared list engine behind every backoffice
// list endpoint.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters,
// runs the count and page queries for a resource, and builds the metadata
// delivered in the API response envelope.
//
// Tenant scoping is never inferred here. Callers inject it into [Filter.Where].
package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/backoffice/pkg/query"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// DefaultPerPage is the number of items per page if not specified.
	DefaultPerPage = 10
	// MaxPerPage is the upper bound for items per page.
	MaxPerPage = 100
	// DefaultOrderBy is the sort key used when none is requested.
	DefaultOrderBy = "createdAt"
)

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Filter is the caller-facing description of a list request.
type Filter struct {
	Page    int
	PerPage int
	Search  string
	Status  string
	OrderBy string
	Order   Order

	// Where holds resource-specific predicates, including tenant scope.
	Where sq.And

	// Select restricts the projection to the named fields. Empty means all.
	Select []string
}

// Normalize clamps the filter to safe values. Paging input never produces an error.
func (f Filter) Normalize() Filter {
	if f.PerPage < 1 || f.PerPage > MaxPerPage {
		f.PerPage = DefaultPerPage
	}
	// Pages whose offset would overflow fall back to the first page.
	if f.Page < 1 || f.Page > math.MaxInt/f.PerPage {
		f.Page = DefaultPage
	}
	if f.OrderBy == "" {
		f.OrderBy = DefaultOrderBy
	}
	switch Order(strings.ToLower(string(f.Order))) {
	case OrderAsc:
		f.Order = OrderAsc
	default:
		f.Order = OrderDesc
	}
	return f
}

// Offset returns the SQL OFFSET value derived from Page and PerPage.
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PerPage < 1 || f.Page-1 > math.MaxInt/f.PerPage {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// And returns a copy of the filter with an extra predicate appended to Where.
func (f Filter) And(predicate sq.Sqlizer) Filter {
	where := make(sq.And, 0, len(f.Where)+1)
	where = append(where, f.Where...)
	f.Where = append(where, predicate)
	return f
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Total    int  `json:"total"`
	LastPage int  `json:"lastPage"`
	Page     int  `json:"page"`
	PerPage  int  `json:"perPage"`
	Prev     *int `json:"prev"`
	Next     *int `json:"next"`
}

// NewMeta constructs pagination metadata for a response.
//
// LastPage is ceil(total/perPage). Prev and Next are nil at the edges.
func NewMeta(page, perPage, total int) Meta {
	lastPage := 0
	if perPage > 0 {
		lastPage = (total + perPage - 1) / perPage
	}

	meta := Meta{
		Total:    total,
		LastPage: lastPage,
		Page:     page,
		PerPage:  perPage,
	}

	if page > 1 {
		prev := page - 1
		meta.Prev = &prev
	}
	if page < lastPage {
		next := page + 1
		meta.Next = &next
	}

	return meta
}

// Result is one page of data plus its metadata.
type Result[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// FromRequest parses the list query parameters from an HTTP request.
//
// # Parameters
//
// page, perPage, search, status, orderBy, order and select (comma-separated).
// Values are not clamped here; [Paginate] normalizes them.
func FromRequest(r *http.Request) Filter {
	values := r.URL.Query()

	return Filter{
		Page:    parseIntParam(values.Get("page"), DefaultPage),
		PerPage: parseIntParam(values.Get("perPage"), DefaultPerPage),
		Search:  strings.TrimSpace(values.Get("search")),
		Status:  strings.TrimSpace(values.Get("status")),
		OrderBy: strings.TrimSpace(values.Get("orderBy")),
		Order:   Order(values.Get("order")),
		Select:  query.StringSlice(values.Get("select")),
	}
}

func parseIntParam(raw string, defaultVal int) int {
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}

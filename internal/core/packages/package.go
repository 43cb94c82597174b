// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package packages manages the commercial packages offered to clients.
package packages

import "github.com/taibuivan/backoffice/internal/platform/record"

// Package is a sellable bundle identified by a unique code.
type Package struct {
	record.Versioned

	Name        string `json:"name"        db:"name"`
	Code        string `json:"code"        db:"code"`
	Description string `json:"description" db:"description"`
	PriceCents  int64  `json:"priceCents"  db:"pricecents"`
	Quota       int    `json:"quota"       db:"quota"`
}

// CreateInput holds the fields of a new package. Code defaults to the slug of Name.
type CreateInput struct {
	Name        string        `json:"name"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
	PriceCents  int64         `json:"priceCents"`
	Quota       int           `json:"quota"`
	Status      record.Status `json:"status"`
}

// UpdateInput is a partial update guarded by Version.
type UpdateInput struct {
	Version     int            `json:"version"`
	Name        *string        `json:"name"`
	Code        *string        `json:"code"`
	Description *string        `json:"description"`
	PriceCents  *int64         `json:"priceCents"`
	Quota       *int           `json:"quota"`
	Status      *record.Status `json:"status"`
}

const (
	FieldName        = "name"
	FieldCode        = "code"
	FieldDescription = "description"
	FieldPriceCents  = "priceCents"
	FieldQuota       = "quota"

	maxNameLen        = 200
	maxDescriptionLen = 2000
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package costcenter manages the cost centers a client bills usage against.
package costcenter

import "github.com/taibuivan/backoffice/internal/platform/record"

type CostCenter struct {
	record.Versioned

	ClientID string `json:"clientId" db:"clientid"`
	Name     string `json:"name"     db:"name"`
	Code     string `json:"code"     db:"code"`
}

// CreateInput holds a new cost center. ClientID defaults to the caller's client.
type CreateInput struct {
	ClientID string        `json:"clientId"`
	Name     string        `json:"name"`
	Code     string        `json:"code"`
	Status   record.Status `json:"status"`
}

// UpdateInput is a partial update. A cost center never moves between clients.
type UpdateInput struct {
	Version int            `json:"version"`
	Name    *string        `json:"name"`
	Code    *string        `json:"code"`
	Status  *record.Status `json:"status"`
}

const (
	FieldClientID = "clientId"
	FieldName     = "name"
	FieldCode     = "code"

	maxNameLen = 200
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package client manages tenants: the organizations whose users and cost
// centers are isolated from each other.
package client

import "github.com/taibuivan/backoffice/internal/platform/record"

type Client struct {
	record.Versioned

	Name  string `json:"name"  db:"name"`
	TaxID string `json:"taxId" db:"taxid"`
	Email string `json:"email" db:"email"`
	Phone string `json:"phone" db:"phone"`
}

type CreateInput struct {
	Name   string        `json:"name"`
	TaxID  string        `json:"taxId"`
	Email  string        `json:"email"`
	Phone  string        `json:"phone"`
	Status record.Status `json:"status"`
}

type UpdateInput struct {
	Version int            `json:"version"`
	Name    *string        `json:"name"`
	TaxID   *string        `json:"taxId"`
	Email   *string        `json:"email"`
	Phone   *string        `json:"phone"`
	Status  *record.Status `json:"status"`
}

const (
	FieldName  = "name"
	FieldTaxID = "taxId"
	FieldEmail = "email"
	FieldPhone = "phone"

	maxNameLen  = 200
	maxTaxIDLen = 32
	maxPhoneLen = 32
)

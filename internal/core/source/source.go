// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package source manages the research sources that feed client packages.
package source

import "github.com/taibuivan/backoffice/internal/platform/record"

// Kind tells how a source delivers its data.
type Kind string

const (
	KindAPI    Kind = "API"
	KindFile   Kind = "FILE"
	KindFeed   Kind = "FEED"
	KindManual Kind = "MANUAL"
)

var kinds = []string{string(KindAPI), string(KindFile), string(KindFeed), string(KindManual)}

type Source struct {
	record.Versioned

	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"`
	URL  string `json:"url"  db:"url"`
	Kind Kind   `json:"kind" db:"kind"`
}

type CreateInput struct {
	Name   string        `json:"name"`
	Code   string        `json:"code"`
	URL    string        `json:"url"`
	Kind   Kind          `json:"kind"`
	Status record.Status `json:"status"`
}

type UpdateInput struct {
	Version int            `json:"version"`
	Name    *string        `json:"name"`
	Code    *string        `json:"code"`
	URL     *string        `json:"url"`
	Kind    *Kind          `json:"kind"`
	Status  *record.Status `json:"status"`
}

const (
	FieldName = "name"
	FieldCode = "code"
	FieldURL  = "url"
	FieldKind = "kind"

	maxNameLen = 200
	maxURLLen  = 2048
)

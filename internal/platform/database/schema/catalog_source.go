// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogSourceTable represents the 'catalog.source' table
type CatalogSourceTable struct {
	Table string
	Name  string
	Code  string
	URL   string
	Kind  string
}

// CatalogSource is the schema definition for catalog.source
var CatalogSource = CatalogSourceTable{
	Table: "catalog.source",
	Name:  "name",
	Code:  "code",
	URL:   "url",
	Kind:  "kind",
}

// Columns returns all standard column names
func (t CatalogSourceTable) Columns() []string {
	return withVersioned(t.Name, t.Code, t.URL, t.Kind)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogPackageTable represents the 'catalog.package' table
type CatalogPackageTable struct {
	Table       string
	Name        string
	Code        string
	Description string
	PriceCents  string
	Quota       string
}

// CatalogPackage is the schema definition for catalog.package
var CatalogPackage = CatalogPackageTable{
	Table:       "catalog.package",
	Name:        "name",
	Code:        "code",
	Description: "description",
	PriceCents:  "pricecents",
	Quota:       "quota",
}

// Columns returns all standard column names
func (t CatalogPackageTable) Columns() []string {
	return withVersioned(t.Name, t.Code, t.Description, t.PriceCents, t.Quota)
}

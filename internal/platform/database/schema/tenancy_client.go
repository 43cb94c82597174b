// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TenancyClientTable represents the 'tenancy.client' table
type TenancyClientTable struct {
	Table string
	Name  string
	TaxID string
	Email string
	Phone string
}

// TenancyClient is the schema definition for tenancy.client
var TenancyClient = TenancyClientTable{
	Table: "tenancy.client",
	Name:  "name",
	TaxID: "taxid",
	Email: "email",
	Phone: "phone",
}

// Columns returns all standard column names
func (t TenancyClientTable) Columns() []string {
	return withVersioned(t.Name, t.TaxID, t.Email, t.Phone)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TenancyCostCenterTable represents the 'tenancy.costcenter' table
type TenancyCostCenterTable struct {
	Table    string
	ClientID string
	Name     string
	Code     string
}

// TenancyCostCenter is the schema definition for tenancy.costcenter
var TenancyCostCenter = TenancyCostCenterTable{
	Table:    "tenancy.costcenter",
	ClientID: "clientid",
	Name:     "name",
	Code:     "code",
}

// Columns returns all standard column names
func (t TenancyCostCenterTable) Columns() []string {
	return withVersioned(t.ClientID, t.Name, t.Code)
}

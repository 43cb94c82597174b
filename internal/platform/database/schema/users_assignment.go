// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAssignmentCatalogTable represents the 'users.assignment' table
type UserAssignmentCatalogTable struct {
	Table  string
	ID     string
	Name   string
	Status string
}

// UserAssignmentCatalog is the schema definition for users.assignment
var UserAssignmentCatalog = UserAssignmentCatalogTable{
	Table:  "users.assignment",
	ID:     "id",
	Name:   "name",
	Status: "status",
}

// UserAssignmentTable represents the 'users.userassignment' table
type UserAssignmentTable struct {
	Table        string
	ID           string
	UserID       string
	AssignmentID string
	CanCreate    string
	CanRead      string
	CanUpdate    string
	CanDelete    string
	CreatedAt    string
	UpdatedAt    string
}

// UserAssignment is the schema definition for users.userassignment
var UserAssignment = UserAssignmentTable{
	Table:        "users.userassignment",
	ID:           "id",
	UserID:       "userid",
	AssignmentID: "assignmentid",
	CanCreate:    "cancreate",
	CanRead:      "canread",
	CanUpdate:    "canupdate",
	CanDelete:    "candelete",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

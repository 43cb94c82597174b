// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Email            string
	Password         string
	RoleID           string
	RoleName         string
	ClientID         string
	Blocked          string
	LoginAttempts    string
	RefreshTokenHash string
	LastLoginAt      string
	Version          string
	Status           string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Email:            "email",
	Password:         "passwordhash",
	RoleID:           "roleid",
	RoleName:         "(SELECT r.name FROM users.role r WHERE r.id = roleid) AS rolename",
	ClientID:         "clientid",
	Blocked:          "blocked",
	LoginAttempts:    "loginattempts",
	RefreshTokenHash: "refreshtokenhash",
	LastLoginAt:      "lastloginat",
	Version:          "version",
	Status:           "status",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return withVersioned(
		t.Email, t.Password, t.RoleID, t.RoleName, t.ClientID, t.Blocked,
		t.LoginAttempts, t.RefreshTokenHash, t.LastLoginAt,
	)
}

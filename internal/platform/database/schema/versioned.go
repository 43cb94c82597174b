// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds table and column names so SQL is never built from
// scattered string literals.
package schema

// VersionedColumns are present on every versioned table, in scan order.
var VersionedColumns = []string{"id", "version", "status", "createdat", "updatedat", "deletedat"}

func withVersioned(columns ...string) []string {
	out := make([]string, 0, len(VersionedColumns)+len(columns))
	out = append(out, VersionedColumns...)
	return append(out, columns...)
}

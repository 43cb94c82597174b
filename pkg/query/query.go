// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-shaped query string and environment values.
package query

import "strings"

// StringSlice splits a comma-separated value into trimmed, non-empty,
// de-duplicated entries, keeping their first-seen order.
//
// # Example
//
//	StringSlice("name, code,,name") // []string{"name", "code"}
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var res []string
	seen := make(map[string]struct{})
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		res = append(res, clean)
	}
	return res
}

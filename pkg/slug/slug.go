// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slug derives the lowercase ASCII codes that identify packages, sources
and cost centers ("Plan Básico 2026" becomes "plan-basico-2026").

A code contains only [a-z0-9] runs joined by single hyphens.
*/
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From folds accents, lowercases and joins the alphanumeric runs of s with hyphens.
func From(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var code strings.Builder
	code.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && code.Len() > 0 {
				code.WriteByte('-')
			}
			code.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return code.String()
}

// Valid reports whether s is already a canonical code.
func Valid(s string) bool {
	return s != "" && From(s) == s
}

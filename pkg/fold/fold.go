// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold normalizes free-text search input.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Normalize applies NFKC, trims the ends and collapses inner whitespace runs
// to a single space. Full-width and composed forms typed by users compare
// equal to the plain ASCII names stored upstream.
func Normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// Equal reports whether a and b are the same search after normalization and
// Unicode case folding.
func Equal(a, b string) bool {
	return folder.String(Normalize(a)) == folder.String(Normalize(b))
}

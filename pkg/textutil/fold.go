// Package textutil holds the case-insensitive string helpers used for name
// search and ordering.
package textutil

import "golang.org/x/text/cases"

// Fold returns the case-folded form of s.
func Fold(s string) string {
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under full Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

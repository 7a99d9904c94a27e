package repository

import "strings"

// placeholders returns n comma-separated bind parameters for an IN clause.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

package model

import "regexp"

// Monetary amounts and rates travel as exact decimal strings. Arithmetic on
// them happens in Postgres NUMERIC columns, never in float64.
var decimalPattern = regexp.MustCompile(`^-?[0-9]{1,12}(\.[0-9]{1,4})?$`)

// ValidDecimal reports whether s is a well-formed decimal amount.
func ValidDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

// ValidPositiveDecimal reports whether s is a well-formed, non-negative
// decimal amount.
func ValidPositiveDecimal(s string) bool {
	return decimalPattern.MatchString(s) && s[0] != '-'
}

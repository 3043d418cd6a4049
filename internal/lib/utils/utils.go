// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import (
	"strconv"
	"strings"
)

// ParseID coerces a request identifier to a positive integer.
//
// Anything that is not a base-10 integer counts as 0, so "abc" and "0"
// are both rejected with ok == false.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

package sqlite

import "strings"

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "CHECK constraint failed") ||
		strings.Contains(err.Error(), "NOT NULL constraint failed")
}

package model

import "strings"

// NormalizeEmail trims and lowercases an email address. The normalized form
// is the stable lookup key for both users and pending verifications.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Package auth establishes which caller principal may operate the treasury.
package auth

import "strings"

// Principal is an authenticated caller identity. The engine never inspects a
// principal beyond comparing it to its configured operator, so tests can use
// plain literals.
type Principal string

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return strings.TrimSpace(string(p)) == ""
}

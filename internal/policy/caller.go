// Package policy holds the rules that decide what a caller may see and edit.
package policy

// Caller is the identity of a request, resolved once by the auth middleware.
type Caller struct {
	UserID  string
	IsAdmin bool
}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

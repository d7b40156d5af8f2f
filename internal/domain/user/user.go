package user

import "strings"

// Session carries the current user between calls. The email is the one used for
// the most recent successful booking; it is never cleared, only replaced.
type Session struct {
	Email string `json:"email"`
}

func (s Session) Known() bool { return strings.TrimSpace(s.Email) != "" }

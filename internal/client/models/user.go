package models

import "strings"

// User is the signed-in operator as reported by the backend at login.
type User struct {
	ID        string `json:"userid"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Title     string `json:"title,omitempty"`
	Group     string `json:"group,omitempty"`
	Authority string `json:"currentAuthority,omitempty"`
}

// Valid reports whether u carries a non-empty identifier. Anything else is
// treated as "no current user" by the session guard.
func (u *User) Valid() bool {
	return u != nil && strings.TrimSpace(u.ID) != ""
}

// DisplayName falls back to the id when the backend sent no name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

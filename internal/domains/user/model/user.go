package model

import "errors"

var ErrUserNotFound = errors.New("user not found")

// User is the author record referenced by posts.
// Accounts are managed by the auth service; this service only reads them.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Profile  string `json:"profile,omitempty"`
	Role     string `json:"role,omitempty"`
}

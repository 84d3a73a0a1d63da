// Package auth authenticates users and issues session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role gates what a session may do.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEducator Role = "Educator"
	RoleStudent  Role = "Student"
)

var (
	ErrAuthFailure = errors.New("invalid username or password")
	ErrUnknownRole = errors.New("unknown role")
)

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleEducator, RoleStudent} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// CanGenerate reports whether the role may run question generation.
func (r Role) CanGenerate() bool {
	return r == RoleEducator || r == RoleStudent
}

// CanViewStats reports whether the role may read completion statistics.
func (r Role) CanViewStats() bool {
	return r == RoleAdmin
}

// Authenticator checks a username and password and returns the user's role,
// or ErrAuthFailure.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Role, error)
}

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
)

type staticUser struct {
	password string
	role     Role
}

// StaticAuthenticator checks credentials against a fixed table.
type StaticAuthenticator struct {
	users map[string]staticUser
}

// DefaultUsers is used when no table is configured.
var DefaultUsers = []string{
	"admin:admin123:Admin",
	"educator:edu123:Educator",
	"student:stu123:Student",
}

// NewStaticAuthenticator parses "username:password:Role" entries.
func NewStaticAuthenticator(entries []string) (*StaticAuthenticator, error) {
	if len(entries) == 0 {
		entries = DefaultUsers
	}
	users := make(map[string]staticUser, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		parts := strings.Split(e, ":")
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("auth user %q: expected username:password:Role", redactEntry(e))
		}
		role, err := ParseRole(parts[2])
		if err != nil {
			return nil, fmt.Errorf("auth user %q: %w", parts[0], err)
		}
		users[parts[0]] = staticUser{password: parts[1], role: role}
	}
	return &StaticAuthenticator{users: users}, nil
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (Role, error) {
	u, ok := a.users[username]
	if !ok || subtle.ConstantTimeCompare([]byte(u.password), []byte(password)) != 1 {
		return "", ErrAuthFailure
	}
	return u.role, nil
}

func redactEntry(e string) string {
	if i := strings.Index(e, ":"); i >= 0 {
		return e[:i] + ":***"
	}
	return e
}

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStaticAuthenticator_Defaults(t *testing.T) {
	a, err := NewStaticAuthenticator(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		user, pass string
		want       Role
		wantErr    error
	}{
		{"admin", "admin123", RoleAdmin, nil},
		{"educator", "edu123", RoleEducator, nil},
		{"student", "stu123", RoleStudent, nil},
		{"student", "wrong", "", ErrAuthFailure},
		{"nobody", "admin123", "", ErrAuthFailure},
		{"", "", "", ErrAuthFailure},
	}
	for _, tt := range tests {
		got, err := a.Authenticate(context.Background(), tt.user, tt.pass)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("Authenticate(%q): expected %q/%v, got %q/%v", tt.user, tt.want, tt.wantErr, got, err)
		}
	}
}

func TestStaticAuthenticator_ParseErrors(t *testing.T) {
	if _, err := NewStaticAuthenticator([]string{"alice:secret"}); err == nil {
		t.Error("expected error for missing role")
	} else if strings.Contains(err.Error(), "secret") {
		t.Errorf("expected password redacted from error, got %v", err)
	}
	if _, err := NewStaticAuthenticator([]string{"alice:pw:Dean"}); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
	a, err := NewStaticAuthenticator([]string{"alice:pw:educator"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role, _ := a.Authenticate(context.Background(), "alice", "pw"); role != RoleEducator {
		t.Errorf("expected case-insensitive role, got %q", role)
	}
}

func TestRoleCanGenerate(t *testing.T) {
	if RoleAdmin.CanGenerate() {
		t.Error("expected admin unable to generate")
	}
	if !RoleEducator.CanGenerate() || !RoleStudent.CanGenerate() {
		t.Error("expected educator and student able to generate")
	}
}

func TestDBAuthenticator(t *testing.T) {
	ctx := context.Background()
	a, err := OpenDBAuthenticator(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if err := a.Seed(ctx, []string{"prof:chalk:Educator"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	role, err := a.Authenticate(ctx, "prof", "chalk")
	if err != nil || role != RoleEducator {
		t.Fatalf("expected educator, got %q/%v", role, err)
	}
	if _, err := a.Authenticate(ctx, "prof", "wrong"); !errors.Is(err, ErrAuthFailure) {
		t.Errorf("expected ErrAuthFailure for bad password, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "ghost", "chalk"); !errors.Is(err, ErrAuthFailure) {
		t.Errorf("expected ErrAuthFailure for unknown user, got %v", err)
	}

	// Seeding a non-empty table is a no-op.
	if err := a.Seed(ctx, []string{"other:pw:Student"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n, _ := a.Count(ctx); n != 1 {
		t.Errorf("expected 1 user, got %d", n)
	}

	// Register replaces the password and role.
	if err := a.Register(ctx, "prof", "board", RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}
	if role, err := a.Authenticate(ctx, "prof", "board"); err != nil || role != RoleAdmin {
		t.Errorf("expected admin after re-register, got %q/%v", role, err)
	}
	if err := a.Register(ctx, "x", "y", Role("Dean")); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)
	tok, err := issuer.Issue("sess-1", "educator", RoleEducator)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != "sess-1" || claims.Subject != "educator" || claims.Role != string(RoleEducator) {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Minute)
	tok, _ := issuer.Issue("sess-1", "u", RoleStudent)

	if _, err := NewTokenIssuer("other", time.Minute).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestRoleCanViewStats(t *testing.T) {
	if !RoleAdmin.CanViewStats() {
		t.Error("expected admin to view stats")
	}
	if RoleEducator.CanViewStats() || RoleStudent.CanViewStats() || Role("").CanViewStats() {
		t.Error("expected only admin to view stats")
	}
}

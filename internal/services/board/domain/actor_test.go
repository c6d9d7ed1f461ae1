package domain

import (
	"errors"
	"testing"
)

func TestPrincipalValidate(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		err       error
	}{
		{name: "participant", principal: Participant("pat")},
		{name: "admin", principal: Admin("commissioner")},
		{name: "admin without id", principal: Admin("")},
		{name: "participant without id", principal: Participant("   "), err: ErrEmptyActorID},
		{name: "unspecified role", principal: Principal{ID: "pat"}, err: ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.principal.Validate()
			if tt.err == nil {
				if err != nil {
					t.Fatalf("expected valid principal, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	if err := Admin("commissioner").RequireAdmin(); err != nil {
		t.Fatalf("expected admin accepted: %v", err)
	}
	if err := Participant("pat").RequireAdmin(); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if err := (Principal{}).RequireAdmin(); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestPrincipalConstructorsTrimIDs(t *testing.T) {
	if got := Participant("  pat  ").ID; got != "pat" {
		t.Fatalf("expected trimmed participant id, got %q", got)
	}
	if got := Admin(" commissioner ").ID; got != "commissioner" {
		t.Fatalf("expected trimmed admin id, got %q", got)
	}
}

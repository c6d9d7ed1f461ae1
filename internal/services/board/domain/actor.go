package domain

import (
	"strings"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
)

// Role is the closed set of caller roles the board controller recognizes.
type Role int

const (
	// RoleUnspecified represents an invalid role value.
	RoleUnspecified Role = iota
	// RoleParticipant is a regular player who can claim and release their
	// own squares.
	RoleParticipant
	// RoleAdmin can perform every board operation.
	RoleAdmin
)

var (
	// ErrNotAdmin indicates the caller lacks the admin role.
	ErrNotAdmin = apperrors.New(apperrors.CodeActorNotAdmin, "admin role is required")
	// ErrEmptyActorID indicates a participant principal without an ID.
	ErrEmptyActorID = apperrors.New(apperrors.CodeActorEmptyID, "participant id is required")
	// ErrInvalidRole indicates an unrecognized role value.
	ErrInvalidRole = apperrors.New(apperrors.CodeActorInvalidRole, "actor role is invalid")
)

// Principal identifies a resolved caller. Identity resolution happens in
// the transport; the board controller trusts this value.
type Principal struct {
	ID   string
	Role Role
}

// Participant builds a participant principal.
func Participant(id string) Principal {
	return Principal{ID: strings.TrimSpace(id), Role: RoleParticipant}
}

// Admin builds an admin principal.
func Admin(id string) Principal {
	return Principal{ID: strings.TrimSpace(id), Role: RoleAdmin}
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Validate checks the principal is well formed.
func (p Principal) Validate() error {
	switch p.Role {
	case RoleAdmin:
		return nil
	case RoleParticipant:
		if p.ID == "" {
			return ErrEmptyActorID
		}
		return nil
	default:
		return ErrInvalidRole
	}
}

// RequireAdmin validates the principal and rejects non-admins.
func (p Principal) RequireAdmin() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

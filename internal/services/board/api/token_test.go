package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
	"github.com/louisbranch/squarepool/internal/services/board/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Issuer: "squarepool-test",
		Secret: testSecret,
		Now: func() time.Time {
			return time.Date(2026, time.February, 8, 20, 0, 0, 0, time.UTC)
		},
	}
}

func signToken(t *testing.T, claims tokenClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(role, subject string) tokenClaims {
	return tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "squarepool-test",
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)),
		},
		Role: role,
	}
}

func TestVerifyTokenResolvesPrincipal(t *testing.T) {
	t.Parallel()

	cfg := testTokenConfig()

	participant, err := VerifyToken(signToken(t, validClaims("participant", "pat")), cfg)
	if err != nil {
		t.Fatalf("verify participant token: %v", err)
	}
	if participant.Role != domain.RoleParticipant || participant.ID != "pat" {
		t.Fatalf("unexpected principal: %+v", participant)
	}

	adminPrincipal, err := VerifyToken(signToken(t, validClaims("admin", "commissioner")), cfg)
	if err != nil {
		t.Fatalf("verify admin token: %v", err)
	}
	if !adminPrincipal.IsAdmin() {
		t.Fatalf("expected admin principal, got %+v", adminPrincipal)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	t.Parallel()

	cfg := testTokenConfig()

	tests := []struct {
		name   string
		claims tokenClaims
		code   apperrors.Code
	}{
		{
			name: "issuer mismatch",
			claims: func() tokenClaims {
				claims := validClaims("participant", "pat")
				claims.Issuer = "someone-else"
				return claims
			}(),
			code: apperrors.CodeTokenInvalid,
		},
		{
			name: "expired",
			claims: func() tokenClaims {
				claims := validClaims("participant", "pat")
				claims.ExpiresAt = jwt.NewNumericDate(time.Date(2026, time.February, 8, 19, 0, 0, 0, time.UTC))
				return claims
			}(),
			code: apperrors.CodeTokenExpired,
		},
		{
			name: "missing exp",
			claims: func() tokenClaims {
				claims := validClaims("participant", "pat")
				claims.ExpiresAt = nil
				return claims
			}(),
			code: apperrors.CodeTokenInvalid,
		},
		{
			name:   "unknown role",
			claims: validClaims("robot", "pat"),
			code:   apperrors.CodeTokenInvalid,
		},
		{
			name:   "participant without subject",
			claims: validClaims("participant", ""),
			code:   apperrors.CodeTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(signToken(t, tt.claims), cfg)
			if !apperrors.IsCode(err, tt.code) {
				t.Fatalf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestVerifyTokenRejectsWrongSignature(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("participant", "pat"))
	signed, err := token.SignedString([]byte("another-secret-another-secret-12"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = VerifyToken(signed, testTokenConfig())
	if !apperrors.IsCode(err, apperrors.CodeTokenInvalid) {
		t.Fatalf("error = %v, want token invalid code", err)
	}
}

func TestVerifyTokenRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := VerifyToken("  ", testTokenConfig())
	if !apperrors.IsCode(err, apperrors.CodeTokenInvalid) {
		t.Fatalf("error = %v, want token invalid code", err)
	}
}

package api

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
	"github.com/louisbranch/squarepool/internal/services/board/domain"
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer string `env:"SQUAREPOOL_TOKEN_ISSUER"`
	Secret string `env:"SQUAREPOOL_TOKEN_SECRET"`
}

// TokenConfig defines how access tokens are verified. Tokens are issued
// out of band by the board operator and signed with a shared HS256
// secret.
type TokenConfig struct {
	Issuer string
	Secret []byte
	Now    func() time.Time
}

// tokenClaims is the internal claims type used for JWT parsing. The
// subject is the participant ID; role is "participant" or "admin".
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// LoadTokenConfigFromEnv reads token verification configuration.
func LoadTokenConfigFromEnv(now func() time.Time) (TokenConfig, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return TokenConfig{}, fmt.Errorf("parse token env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	secret := strings.TrimSpace(raw.Secret)
	if issuer == "" {
		return TokenConfig{}, fmt.Errorf("SQUAREPOOL_TOKEN_ISSUER is required")
	}
	if secret == "" {
		return TokenConfig{}, fmt.Errorf("SQUAREPOOL_TOKEN_SECRET is required")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return TokenConfig{}, fmt.Errorf("decode token secret: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return TokenConfig{Issuer: issuer, Secret: key, Now: now}, nil
}

// VerifyToken parses an access token and resolves the caller principal.
func VerifyToken(token string, cfg TokenConfig) (domain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Principal{}, apperrors.New(apperrors.CodeTokenInvalid, "access token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || len(cfg.Secret) == 0 {
		return domain.Principal{}, fmt.Errorf("token verifier is not configured")
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return domain.Principal{}, apperrors.Wrap(apperrors.CodeTokenInvalid, "access token is malformed", err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return domain.Principal{}, apperrors.WithMetadata(
			apperrors.CodeTokenInvalid,
			"access token issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if parsed.ExpiresAt == nil {
		return domain.Principal{}, apperrors.New(apperrors.CodeTokenInvalid, "access token exp is required")
	}
	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return domain.Principal{}, apperrors.New(apperrors.CodeTokenExpired, "access token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return domain.Principal{}, apperrors.New(apperrors.CodeTokenInvalid, "access token not active yet")
	}

	subject := strings.TrimSpace(parsed.Subject)
	switch parsed.Role {
	case "admin":
		return domain.Admin(subject), nil
	case "participant":
		if subject == "" {
			return domain.Principal{}, apperrors.New(apperrors.CodeTokenInvalid, "access token subject is required")
		}
		return domain.Participant(subject), nil
	default:
		return domain.Principal{}, apperrors.WithMetadata(
			apperrors.CodeTokenInvalid,
			"access token role is not recognized",
			map[string]string{"Field": "role"},
		)
	}
}

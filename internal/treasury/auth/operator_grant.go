package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ansu555/Moltiverse-cult/internal/platform/errors"
)

// operatorGrantEnv holds raw env values before post-parse validation.
type operatorGrantEnv struct {
	Issuer    string `env:"MOLTIVERSE_OPERATOR_GRANT_ISSUER"`
	Audience  string `env:"MOLTIVERSE_OPERATOR_GRANT_AUDIENCE"`
	PublicKey string `env:"MOLTIVERSE_OPERATOR_GRANT_PUBLIC_KEY"`
}

// OperatorGrantConfig defines how operator grants are verified.
type OperatorGrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// operatorGrantClaims is the internal claims type used for JWT parsing.
type operatorGrantClaims struct {
	jwt.RegisteredClaims
}

// LoadOperatorGrantConfigFromEnv reads operator grant verification configuration.
func LoadOperatorGrantConfigFromEnv(now func() time.Time) (OperatorGrantConfig, error) {
	var raw operatorGrantEnv
	if err := env.Parse(&raw); err != nil {
		return OperatorGrantConfig{}, fmt.Errorf("parse operator grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return OperatorGrantConfig{}, fmt.Errorf("MOLTIVERSE_OPERATOR_GRANT_ISSUER is required")
	}
	if audience == "" {
		return OperatorGrantConfig{}, fmt.Errorf("MOLTIVERSE_OPERATOR_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return OperatorGrantConfig{}, fmt.Errorf("MOLTIVERSE_OPERATOR_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return OperatorGrantConfig{}, fmt.Errorf("decode operator grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return OperatorGrantConfig{}, fmt.Errorf("operator grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return OperatorGrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyOperatorGrant verifies a grant token and returns the caller principal
// from its subject claim.
func VerifyOperatorGrant(grant string, cfg OperatorGrantConfig) (Principal, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return "", apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return "", errors.New("operator grant verifier is not configured")
	}

	var parsed operatorGrantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return "", apperrors.WithMetadata(
			apperrors.CodeOperatorGrantInvalid,
			"operator grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return "", apperrors.WithMetadata(
			apperrors.CodeOperatorGrantInvalid,
			"operator grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return "", apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant subject is required")
	}
	if parsed.ExpiresAt == nil {
		return "", apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant exp is required")
	}

	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return "", apperrors.New(apperrors.CodeOperatorGrantExpired, "operator grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return "", apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant not active yet")
	}

	return Principal(parsed.Subject), nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeOperatorGrantInvalid, "operator grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}

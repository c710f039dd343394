// Package authtoken verifies the session tokens minted by the hosted
// authentication provider. Tokens are HS256 JWTs whose subject is the
// WarmNest user id; the shared secret is configured out-of-band.
package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
)

// sessionEnv holds raw env values before post-parse validation.
type sessionEnv struct {
	Issuer string `env:"WARMNEST_SESSION_ISSUER" envDefault:"warmnest-auth"`
	Secret string `env:"WARMNEST_SESSION_SECRET"`
}

// Config defines how session tokens are verified.
type Config struct {
	Issuer string
	Secret []byte
	Now    func() time.Time
}

// LoadConfigFromEnv reads session verification configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw sessionEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse session env: %w", err)
	}
	secret := strings.TrimSpace(raw.Secret)
	if secret == "" {
		return Config{}, fmt.Errorf("WARMNEST_SESSION_SECRET is required")
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer: strings.TrimSpace(raw.Issuer),
		Secret: []byte(secret),
		Now:    now,
	}, nil
}

// Mint issues a session token for a user. Used by the seed tool and tests;
// production tokens come from the auth provider.
func Mint(cfg Config, userID string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if len(cfg.Secret) == 0 {
		return "", errors.New("session secret is not configured")
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	issued := now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

// Verify validates a session token and returns the user id it names.
func Verify(cfg Config, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.New(apperrors.CodeUnauthorized, "session token is required")
	}
	if len(cfg.Secret) == 0 {
		return "", errors.New("session verifier is not configured")
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now().UTC() }),
	)
	if err != nil {
		return "", mapJWTError(err)
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return "", apperrors.New(apperrors.CodeUnauthorized, "session issuer mismatch")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", apperrors.New(apperrors.CodeUnauthorized, "session subject is required")
	}
	return subject, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeUnauthorized, "session signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.New(apperrors.CodeUnauthorized, "session is expired")
	}
	return apperrors.New(apperrors.CodeUnauthorized, "session token is invalid")
}

// Package auth issues and validates the signed tokens that bind API callers
// to a studio session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	issuer       = "sdv-studio"
	signingAlg   = "HS256"
	defaultKeyID = "default"
)

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("session token secret is required")

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	signingKey []byte
	keyID      string
	tracer     trace.Tracer
	now        func() time.Time
}

// Claims carries the session a token grants access to.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewTokenManager creates a manager signing with secret.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenManager{
		signingKey: []byte(secret),
		keyID:      defaultKeyID,
		tracer:     otel.Tracer("token-manager"),
		now:        time.Now,
	}, nil
}

// Issue signs a token for sessionID valid for ttl.
func (tm *TokenManager) Issue(ctx context.Context, sessionID string, ttl time.Duration) (string, error) {
	_, span := tm.tracer.Start(ctx, "auth.issue_token")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	now := tm.now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod(signingAlg), claims)
	token.Header["kid"] = tm.keyID

	signed, err := token.SignedString(tm.signingKey)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns its claims.
func (tm *TokenManager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	_, span := tm.tracer.Start(ctx, "auth.validate_token")
	defer span.End()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != signingAlg {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if kid, ok := token.Header["kid"].(string); ok && kid != tm.keyID {
			span.SetAttributes(attribute.String("jwt.kid_mismatch", kid))
		}
		return tm.signingKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	span.SetAttributes(attribute.String("session.id", claims.SessionID))
	return claims, nil
}

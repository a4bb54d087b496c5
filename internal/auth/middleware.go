package auth

import (
	"net/http"
	"strings"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SessionIDKey is the gin context key holding the authenticated session id.
const SessionIDKey = "session_id"

// TokenQueryParam carries the token for WebSocket upgrades, where browsers
// cannot set headers.
const TokenQueryParam = "token"

var middlewareTracer = otel.Tracer("auth-middleware")

// RequireSession rejects requests without a valid session token and stores
// the session id on the gin context.
func RequireSession(tm *TokenManager, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		ctx, span := middlewareTracer.Start(c.Request.Context(), "auth.require_session")
		defer span.End()

		token := extractToken(c)
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.token_present", false))
			abortUnauthorized(c, "Missing session token")
			return
		}
		span.SetAttributes(attribute.Bool("auth.token_present", true))

		claims, err := tm.Validate(ctx, token)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("auth.token_valid", false))
			logger.Warn("Invalid session token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortUnauthorized(c, "Invalid or expired session token")
			return
		}

		span.SetAttributes(
			attribute.Bool("auth.token_valid", true),
			attribute.String("session.id", claims.SessionID),
		)
		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}

// SessionID returns the id stored by RequireSession.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func extractToken(c *gin.Context) string {
	const prefix = "Bearer "
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, prefix) {
			return ""
		}
		return strings.TrimSpace(header[len(prefix):])
	}
	return strings.TrimSpace(c.Query(TokenQueryParam))
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error: message,
		Code:  models.ErrCodeUnauthorized,
	})
}

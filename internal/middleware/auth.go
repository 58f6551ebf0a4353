package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/response"
)

// Context keys set by Auth
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	ClaimsKey = "claims"
)

// TokenValidator verifies a session token
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
}

// Auth rejects requests without a valid bearer token and stores the claims on the context.
// Every verification failure gets the same response.
func Auth(tokens TokenValidator, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := tokens.ValidateToken(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Not authorized, token failed")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// bearerToken extracts the credential from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// GetUserID returns the authenticated user id, or "" on public routes
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetClaims returns the verified token claims
func GetClaims(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	return claims, ok
}

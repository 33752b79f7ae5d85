package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// BearerToken extracts the raw token from the Authorization header
func BearerToken(c *gin.Context) string {
	return strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
}

// AuthMiddleware verifies the access token and that it was not revoked by a
// logout, then exposes the caller identity to handlers and usecases.
func AuthMiddleware(tokens *auth.TokenManager, revoked auth.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			denyUnauthorized(c, "Authorization header required", "missing token")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			denyUnauthorized(c, "Invalid or expired token", "invalid token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			denyUnauthorized(c, "Invalid claims", "non numeric subject")
			return
		}

		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			denyUnauthorized(c, "Invalid claims", "unknown role")
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// fail open: an unreachable store only loses logout enforcement
			logger.Log.WarnContext(c.Request.Context(), "revocation check failed", "error", err)
		}
		if isRevoked {
			denyUnauthorized(c, "Token has been revoked", "revoked token")
			return
		}

		c.Set(string(domain.KeyUserID), userID)
		c.Set(string(domain.KeyUserEmail), claims.Email)
		c.Set(string(domain.KeyUserRole), role)
		c.Set(string(domain.KeyTokenID), claims.ID)

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, userID)
		ctx = context.WithValue(ctx, domain.KeyUserRole, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects callers whose token role differs from role
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r, _ := c.Get(string(domain.KeyUserRole)); r != role {
			security.DefaultLogger().LogAccessDenied(c.Request.Context(), security.EventForbiddenAccess,
				c.ClientIP(), c.GetString(string(domain.KeyRequestID)), c.FullPath(), "role "+string(role)+" required")
			response.Error(c, http.StatusForbidden, "Only "+string(role)+"s can access this resource", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func denyUnauthorized(c *gin.Context, message, reason string) {
	security.DefaultLogger().LogAccessDenied(c.Request.Context(), security.EventUnauthorizedAccess,
		c.ClientIP(), c.GetString(string(domain.KeyRequestID)), c.FullPath(), reason)
	response.Error(c, http.StatusUnauthorized, message, nil)
	c.Abort()
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"hookr/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

type RoleSource interface {
	StoredRole(ctx context.Context, userID string) (string, error)
}

// RefreshRole swaps the token's role for the stored one, so a creator approved after login
// passes RequireRole without signing in again. Must run after AuthMiddleware.
func RefreshRole(src RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := src.StoredRole(c.Request.Context(), c.GetString(ContextUserID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
			c.Abort()
			return
		}
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found or deactivated"})
			c.Abort()
			return
		}
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[c.GetString(ContextUserRole)]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" outside AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

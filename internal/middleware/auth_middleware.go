package middleware

import (
	"net/http"
	"strings"

	"github.com/gatherhq/gatherspace/internal/auth"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUserRoleKey = "user_role"
)

// Identity extracts the authenticated caller from the gin context.
func Identity(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	id, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := c.Get(ContextUserRoleKey)
	if !ok {
		return uuid.Nil, "", false
	}
	userID, ok := id.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	userRole, ok := role.(models.UserRole)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, userRole, true
}

// RequireAuth verifies the Bearer access token and attaches the caller's
// identity to the request context. Missing or malformed headers are rejected
// before any verification is attempted.
func RequireAuth(accessSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied."})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString, accessSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid."})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRoles gates a route to the given roles. It expects RequireAuth to
// have run first; a request with no identity at all is also rejected.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, ok := Identity(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"message": "User role not found, authorization denied."})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"message": "User role '" + string(role) + "' is not authorized to access this resource."})
		c.Abort()
	}
}

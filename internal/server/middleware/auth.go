package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"online-shop/backend/internal/security"
	userdomain "online-shop/backend/internal/user/domain"
)

const bearerPrefix = "bearer "

// Context keys under which the authenticated identity is stored.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// RequireAuthorized validates the Bearer access token and puts the user's id
// and role into the request context. Requests without a valid access token
// are rejected with 401 and a fixed message.
func RequireAuthorized(tokens *security.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Set(ContextUserID, claims.User.ID)
		c.Set(ContextUserRole, claims.User.Role)
		c.Next()
	}
}

// RequireRole rejects with 403 unless RequireAuthorized stored one of the
// given roles in the context. Must be chained after RequireAuthorized.
func RequireRole(roles ...userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := userdomain.Role(c.GetString(ContextUserRole))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(c *gin.Context) string {
	v := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

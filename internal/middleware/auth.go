package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-booking/internal/auth"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextTenantID, claims.TenantID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireTenantOwner lets through callers whose token names a tenant they own.
func RequireTenantOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		tenantID := c.GetString(ContextTenantID)

		if role != models.RoleOwner || tenantID == "" {
			httperr.Forbidden(c, "not_tenant_owner", "caller does not own a tenant")
			c.Abort()
			return
		}

		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func TenantID(c *gin.Context) string {
	return c.GetString(ContextTenantID)
}

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = contextKey("userID")
	tenantIDKey = contextKey("tenantID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromCtx(c.Request.Context(), userIDKey)
}

// GetTenantIDFromContext retrieves the tenant the authenticated user acts for.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	return stringFromCtx(c.Request.Context(), tenantIDKey)
}

func stringFromCtx(ctx context.Context, key contextKey) (string, bool) {
	val, ok := ctx.Value(key).(string)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

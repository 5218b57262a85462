package routes

import (
	"log/slog"
	"net/http"

	"building-access-control/internal/rbac"

	"github.com/gin-gonic/gin"
)

// ResourcePermission derives the required action from the HTTP method:
// GET needs "read", everything else needs "write". Lets viewer operators
// browse any resource without granting mutation rights.
func ResourcePermission(authz *rbac.RBAC, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := "write"
		if c.Request.Method == http.MethodGet {
			action = "read"
		}
		RequirePermission(authz, resource, action)(c)
	}
}

// RequirePermission creates middleware that checks for specific permission.
func RequirePermission(authz *rbac.RBAC, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUser(c)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if !authz.Can(userID, resource, action) {
			slog.Warn("Permission denied",
				"userID", userID,
				"resource", resource,
				"action", action)

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "permission denied",
				"details": map[string]string{
					"resource": resource,
					"action":   action,
				},
			})
			return
		}

		slog.Debug("Permission granted",
			"userID", userID,
			"resource", resource,
			"action", action)

		c.Next()
	}
}

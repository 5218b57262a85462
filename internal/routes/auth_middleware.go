// Authentication middleware for the management API.
// Operators present a bearer token signed with the local secret; verifying
// against an external identity provider is out of scope here.
package routes

import (
	"errors"
	"log/slog"
	"strings"

	jwt "building-access-control/internal/jwt"

	"github.com/gin-gonic/gin"
)

var (
	ErrUserNotFound  = errors.New("user not found in context")
	ErrUserNotString = errors.New("user ID in context is not a string")
)

// GetUser returns the authenticated operator email from the request context.
func GetUser(c *gin.Context) (string, error) {
	uid, exists := c.Get("userID")
	if !exists {
		return "", ErrUserNotFound
	}
	userIdStr, ok := uid.(string)
	if !ok {
		slog.Warn("GetUser: User ID in context is not a string")
		return "", ErrUserNotString
	}
	return userIdStr, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware validates the bearer token and sets the operator identity
// in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := jwt.DecodeOperatorJWT(token)
		if err != nil {
			slog.Warn("AuthMiddleware: Invalid auth token", "error", err)
			AbortWithError(c, jwt.ErrNonValidToken)
			return
		}

		c.Set("userID", claims.Email)
		c.Set("userRoles", claims.Roles)
		c.Next()
	}
}

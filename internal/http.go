package app

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	. "building-access-control/internal/config"

	"building-access-control/internal/access"
	"building-access-control/internal/rbac"
	routes "building-access-control/internal/routes"
	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")

	// Disable caching
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// Middleware to check if the IP is allowed.
func IPAccessControl(allowedCIDRs []string) gin.HandlerFunc {
	// Parse allowed CIDRs
	var parsedCIDRs []*net.IPNet

	// Allow local networks in debug mode
	if os.Getenv("GIN_MODE") != "release" {
		localhostCIDRs := []string{"127.0.0.1/8", "::1/128"}
		allowedCIDRs = append(allowedCIDRs, localhostCIDRs...)
	}

	for _, cidr := range allowedCIDRs {
		_, net, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("Invalid CIDR", "cidr", cidr)
			continue
		}
		slog.Debug("Allowed CIDR", "cidr", cidr)
		parsedCIDRs = append(parsedCIDRs, net)
	}

	return func(c *gin.Context) {
		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil {
			// Should not happen
			slog.Warn("Invalid client IP", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		for _, cidr := range parsedCIDRs {
			if cidr.Contains(clientIP) {
				c.Next()
				return
			}
		}
		slog.Warn("IP not allowed", "ip", clientIP)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func HTTPServer() *gin.Engine {
	r := gin.Default()

	if Cfg.AllowedNetworks != "" {
		slog.Debug("Enabling IP access control", "allowed_networks", Cfg.AllowedNetworks)
		var allowedCIDRs []string

		for cidr := range strings.SplitSeq(Cfg.AllowedNetworks, ",") {
			// Remove spaces and ignore empty sets
			if cidr := strings.TrimSpace(cidr); cidr != "" {
				allowedCIDRs = append(allowedCIDRs, cidr)
			}
		}

		r.Use(IPAccessControl(allowedCIDRs))
	}
	r.Use(securityHeaders)
	r.Use(routes.ErrorHandler())

	r.GET("/ping", func(c *gin.Context) {
		msg := c.Query("ping")
		if msg == "" {
			msg = "pong"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	})

	return r
}

// RegisterRoutes wires the API surface onto the server. Reader-facing
// endpoints (verify, registration) are open; management endpoints sit behind
// bearer auth and the operator RBAC policy.
func RegisterRoutes(r *gin.Engine, engine *access.Engine, provider storage.Provider, authz *rbac.RBAC) {
	api := r.Group("/api/v1")

	routes.Health(api)
	routes.VerifyRoute(api, engine)
	routes.ReaderRoutes(api, provider)

	mgmt := api.Group("", routes.AuthMiddleware())

	resource := func(name string) *gin.RouterGroup {
		return mgmt.Group("", routes.ResourcePermission(authz, name))
	}

	routes.OrganizationRoutes(resource("organizations"), provider)
	routes.BuildingRoutes(resource("buildings"), provider)
	routes.DoorRoutes(resource("doors"), provider)
	routes.DoorGroupRoutes(resource("door-groups"), provider)
	routes.RoleRoutes(resource("roles"), provider)
	routes.EmployeeRoutes(resource("employees"), provider)
	routes.CardRoutes(resource("cards"), provider)
	routes.PermissionRoutes(resource("permissions"), provider)
	routes.AccessLogRoutes(resource("access-logs"), provider)
	routes.DashboardRoutes(resource("dashboard"), provider)
}

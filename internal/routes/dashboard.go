package routes

import (
	"net/http"
	"time"

	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

func DashboardRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/dashboard/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		orgs, err := provider.CountOrganizations(ctx)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		buildings, err := provider.CountBuildings(ctx)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		active := storage.EmployeeStatusActive
		activeEmployees, err := provider.CountEmployees(ctx, &active)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		totalEmployees, err := provider.CountEmployees(ctx, nil)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}

		// Today's traffic in UTC
		now := time.Now().UTC()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		todayStats, err := provider.AccessStats(ctx, storage.AccessLogFilter{StartDate: startOfDay})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"organizations":    orgs,
			"buildings":        buildings,
			"active_employees": activeEmployees,
			"total_employees":  totalEmployees,
			"access_today":     todayStats,
		})
	})
}

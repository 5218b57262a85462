package routes

import (
	"net/http"
	"strconv"
	"time"

	"building-access-control/internal/access"
	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type verifyRequest struct {
	CardUID string `json:"card_uid" binding:"required"`
	DoorID  int64  `json:"door_id" binding:"required"`
}

// VerifyRoute registers the reader-facing verification endpoint. It is
// unauthenticated and always answers 200: a malformed request is a denial,
// not a protocol error, so a reader can always display the decision.
func VerifyRoute(r *gin.RouterGroup, engine *access.Engine) {
	r.POST("/access/verify", func(c *gin.Context) {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// No card was looked up, so the denial must not read like one.
			c.JSON(http.StatusOK, access.Result{
				Status:    access.StatusDenied,
				Message:   "Invalid request",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		result := engine.Verify(c.Request.Context(), req.CardUID, req.DoorID)
		c.JSON(http.StatusOK, result)
	})
}

// AccessLogRoutes registers the management endpoints over the audit trail.
func AccessLogRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/access/logs", func(c *gin.Context) {
		filter, err := logFilterFromQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		page := intQuery(c, "page", 1)
		limit := intQuery(c, "limit", 50)

		logs, total, err := provider.ListAccessLogs(c.Request.Context(), filter, page, limit)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"logs":  logs,
			"total": total,
			"page":  page,
			"limit": limit,
		})
	})

	r.GET("/access/stats", func(c *gin.Context) {
		filter, err := logFilterFromQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		stats, err := provider.AccessStats(c.Request.Context(), filter)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/access/denied", func(c *gin.Context) {
		filter, err := logFilterFromQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		limit := intQuery(c, "limit", 50)
		logs, err := provider.ListDeniedAttempts(c.Request.Context(), filter, limit)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs})
	})
}

func logFilterFromQuery(c *gin.Context) (storage.AccessLogFilter, error) {
	filter := storage.AccessLogFilter{
		CardUID: c.Query("card_uid"),
		Status:  storage.AccessStatus(c.Query("status")),
	}

	if v := c.Query("door_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, ErrInvalidParameter
		}
		filter.DoorID = id
	}

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, ErrInvalidParameter
		}
		filter.StartDate = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, ErrInvalidParameter
		}
		// Inclusive end date
		filter.EndDate = t.Add(24*time.Hour - time.Second)
	}

	return filter, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

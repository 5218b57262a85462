package routes

import (
	"log/slog"
	"net/http"

	"building-access-control/internal/access"
	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type permissionRequest struct {
	RoleID      int64              `json:"role_id" binding:"required"`
	DoorGroupID int64              `json:"door_group_id" binding:"required"`
	AccessType  storage.AccessType `json:"access_type" binding:"required"`
	StartTime   *string            `json:"start_time"`
	EndTime     *string            `json:"end_time"`
}

func PermissionRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/permissions", func(c *gin.Context) {
		var roleID, doorGroupID *int64
		if v := c.Query("role_id"); v != "" {
			id, err := pathIDValue(v)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			roleID = &id
		}
		if v := c.Query("door_group_id"); v != "" {
			id, err := pathIDValue(v)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			doorGroupID = &id
		}

		perms, err := provider.ListPermissions(c.Request.Context(), roleID, doorGroupID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(perms))
	})

	// Granting the same (role, door group) pair again updates the existing
	// permission rather than duplicating it.
	r.POST("/permissions", func(c *gin.Context) {
		var req permissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		switch req.AccessType {
		case storage.AccessAlways:
			// Bounds are meaningless on an unconditional grant, drop them
			req.StartTime, req.EndTime = nil, nil
		case storage.AccessTimeBound:
			if req.StartTime == nil || req.EndTime == nil ||
				!access.IsValidTimeFormat(*req.StartTime) || !access.IsValidTimeFormat(*req.EndTime) {
				AbortWithError(c, ErrInvalidTimeWindow)
				return
			}
			if *req.StartTime == *req.EndTime {
				// Stored as-is, but matches only at that exact second.
				slog.Warn("Time-bound permission with equal bounds",
					"role_id", req.RoleID, "door_group_id", req.DoorGroupID, "time", *req.StartTime)
			}
		default:
			AbortWithError(c, ErrInvalidParameter)
			return
		}

		role, err := provider.GetRole(c.Request.Context(), req.RoleID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if role == nil {
			AbortWithError(c, ErrRoleNotFound)
			return
		}
		group, err := provider.GetDoorGroup(c.Request.Context(), req.DoorGroupID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if group == nil {
			AbortWithError(c, ErrDoorGroupNotFound)
			return
		}

		id, err := provider.UpsertPermission(c.Request.Context(), storage.Permission{
			RoleID:      req.RoleID,
			DoorGroupID: req.DoorGroupID,
			AccessType:  req.AccessType,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/permissions/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		perm, err := provider.GetPermission(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if perm == nil {
			AbortWithError(c, ErrPermissionNotFound)
			return
		}
		c.JSON(http.StatusOK, perm)
	})

	r.DELETE("/permissions/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.DeletePermission(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

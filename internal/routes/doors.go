package routes

import (
	"net/http"

	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type doorRequest struct {
	Name          string `json:"name" binding:"required"`
	Location      string `json:"location"`
	FloorID       *int64 `json:"floor_id"`
	OfficeSpaceID *int64 `json:"office_space_id"`
}

type doorGroupRequest struct {
	Name        string                `json:"name" binding:"required"`
	Type        storage.DoorGroupType `json:"type" binding:"required"`
	Description string                `json:"description"`
}

func DoorRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/doors", func(c *gin.Context) {
		doors, err := provider.ListDoors(c.Request.Context())
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(doors))
	})

	r.POST("/doors", func(c *gin.Context) {
		var req doorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		id, err := provider.CreateDoor(c.Request.Context(), storage.Door{
			Name:          req.Name,
			Location:      req.Location,
			FloorID:       req.FloorID,
			OfficeSpaceID: req.OfficeSpaceID,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/doors/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		// Return the full detail including groups and timezone, the same
		// view the verification engine sees.
		door, err := provider.DoorByID(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if door == nil {
			AbortWithError(c, ErrDoorNotFound)
			return
		}
		c.JSON(http.StatusOK, door)
	})

	r.PUT("/doors/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req doorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		existing, err := provider.GetDoor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing == nil {
			AbortWithError(c, ErrDoorNotFound)
			return
		}

		existing.Name = req.Name
		existing.Location = req.Location
		existing.FloorID = req.FloorID
		existing.OfficeSpaceID = req.OfficeSpaceID
		if err := provider.UpdateDoor(c.Request.Context(), *existing); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, existing)
	})

	r.DELETE("/doors/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.DeleteDoor(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/doors/:id/groups", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		groups, err := provider.GroupsForDoor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(groups))
	})

	r.POST("/doors/:id/groups/:groupID", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		groupID, err := pathID(c, "groupID")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		door, err := provider.GetDoor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if door == nil {
			AbortWithError(c, ErrDoorNotFound)
			return
		}
		group, err := provider.GetDoorGroup(c.Request.Context(), groupID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if group == nil {
			AbortWithError(c, ErrDoorGroupNotFound)
			return
		}

		if err := provider.AssignDoorToGroup(c.Request.Context(), id, groupID); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/doors/:id/groups/:groupID", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		groupID, err := pathID(c, "groupID")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.RemoveDoorFromGroup(c.Request.Context(), id, groupID); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func DoorGroupRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/door-groups", func(c *gin.Context) {
		groups, err := provider.ListDoorGroups(c.Request.Context())
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(groups))
	})

	r.POST("/door-groups", func(c *gin.Context) {
		var req doorGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		if !validDoorGroupType(req.Type) {
			AbortWithError(c, ErrInvalidParameter)
			return
		}

		id, err := provider.CreateDoorGroup(c.Request.Context(), storage.DoorGroup{
			Name:        req.Name,
			Type:        req.Type,
			Description: req.Description,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/door-groups/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		group, err := provider.GetDoorGroup(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if group == nil {
			AbortWithError(c, ErrDoorGroupNotFound)
			return
		}
		c.JSON(http.StatusOK, group)
	})

	r.GET("/door-groups/:id/doors", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		doors, err := provider.DoorsInGroup(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(doors))
	})

	r.DELETE("/door-groups/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.DeleteDoorGroup(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func validDoorGroupType(t storage.DoorGroupType) bool {
	switch t {
	case storage.DoorGroupPublic, storage.DoorGroupPrivate, storage.DoorGroupRestricted:
		return true
	}
	return false
}

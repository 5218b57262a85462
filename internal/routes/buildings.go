package routes

import (
	"net/http"
	"time"

	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type buildingRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

type floorRequest struct {
	FloorNumber int `json:"floor_number" binding:"required"`
}

type officeSpaceRequest struct {
	Name string `json:"name" binding:"required"`
}

func BuildingRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/buildings", func(c *gin.Context) {
		buildings, err := provider.ListBuildings(c.Request.Context())
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(buildings))
	})

	r.POST("/buildings", func(c *gin.Context) {
		var req buildingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		// A bad timezone here would push every door in the building onto
		// the system-error path at verification time.
		if req.Timezone != "" {
			if _, err := time.LoadLocation(req.Timezone); err != nil {
				AbortWithError(c, ErrInvalidParameter)
				return
			}
		}

		id, err := provider.CreateBuilding(c.Request.Context(), storage.Building{
			Name:     req.Name,
			Address:  req.Address,
			Timezone: req.Timezone,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/buildings/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		building, err := provider.GetBuilding(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if building == nil {
			AbortWithError(c, ErrBuildingNotFound)
			return
		}
		c.JSON(http.StatusOK, building)
	})

	r.PUT("/buildings/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req buildingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		if req.Timezone != "" {
			if _, err := time.LoadLocation(req.Timezone); err != nil {
				AbortWithError(c, ErrInvalidParameter)
				return
			}
		}

		existing, err := provider.GetBuilding(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing == nil {
			AbortWithError(c, ErrBuildingNotFound)
			return
		}

		existing.Name = req.Name
		existing.Address = req.Address
		if req.Timezone != "" {
			existing.Timezone = req.Timezone
		}
		if err := provider.UpdateBuilding(c.Request.Context(), *existing); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, existing)
	})

	r.DELETE("/buildings/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.DeleteBuilding(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/buildings/:id/floors", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		floors, err := provider.ListFloorsByBuilding(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(floors))
	})

	r.POST("/buildings/:id/floors", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req floorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		building, err := provider.GetBuilding(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if building == nil {
			AbortWithError(c, ErrBuildingNotFound)
			return
		}

		floorID, err := provider.CreateFloor(c.Request.Context(), storage.Floor{
			BuildingID:  id,
			FloorNumber: req.FloorNumber,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": floorID})
	})

	r.GET("/floors/:id/office-spaces", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		spaces, err := provider.ListOfficeSpacesByFloor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(spaces))
	})

	r.POST("/floors/:id/office-spaces", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req officeSpaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		floor, err := provider.GetFloor(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if floor == nil {
			AbortWithError(c, ErrFloorNotFound)
			return
		}

		spaceID, err := provider.CreateOfficeSpace(c.Request.Context(), storage.OfficeSpace{
			FloorID: id,
			Name:    req.Name,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": spaceID})
	})
}

package routes

import (
	"net/http"

	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type organizationRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email"`
}

type leaseRequest struct {
	OfficeSpaceID int64  `json:"office_space_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate       string `json:"end_date" binding:"required"`
}

func OrganizationRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/organizations", func(c *gin.Context) {
		orgs, err := provider.ListOrganizations(c.Request.Context())
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(orgs))
	})

	r.POST("/organizations", func(c *gin.Context) {
		var req organizationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		id, err := provider.CreateOrganization(c.Request.Context(), storage.Organization{
			Name:         req.Name,
			ContactEmail: req.ContactEmail,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/organizations/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		org, err := provider.GetOrganization(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if org == nil {
			AbortWithError(c, ErrOrganizationNotFound)
			return
		}
		c.JSON(http.StatusOK, org)
	})

	r.PUT("/organizations/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req organizationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		existing, err := provider.GetOrganization(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing == nil {
			AbortWithError(c, ErrOrganizationNotFound)
			return
		}

		existing.Name = req.Name
		existing.ContactEmail = req.ContactEmail
		if err := provider.UpdateOrganization(c.Request.Context(), *existing); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, existing)
	})

	r.DELETE("/organizations/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.DeleteOrganization(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Leases hang off the organization that holds them
	r.GET("/organizations/:id/leases", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		leases, err := provider.ListLeasesByOrganization(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(leases))
	})

	r.POST("/organizations/:id/leases", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req leaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		if !validISODate(req.StartDate) || !validISODate(req.EndDate) {
			AbortWithError(c, ErrInvalidParameter)
			return
		}

		space, err := provider.GetOfficeSpace(c.Request.Context(), req.OfficeSpaceID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if space == nil {
			AbortWithError(c, ErrOfficeSpaceNotFound)
			return
		}

		leaseID, err := provider.CreateLease(c.Request.Context(), storage.Lease{
			OrganizationID: id,
			OfficeSpaceID:  req.OfficeSpaceID,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": leaseID})
	})
}

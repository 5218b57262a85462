package routes

import (
	"net/http"

	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type roleRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	OrganizationID *int64 `json:"organization_id"`
}

func RoleRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/roles", func(c *gin.Context) {
		var organizationID *int64
		if v := c.Query("organization_id"); v != "" {
			id, err := pathIDValue(v)
			if err != nil {
				AbortWithError(c, ErrInvalidParameter)
				return
			}
			organizationID = &id
		}
		systemOnly := c.Query("system") == "true"

		roles, err := provider.ListRoles(c.Request.Context(), organizationID, systemOnly)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(roles))
	})

	r.POST("/roles", func(c *gin.Context) {
		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		if req.OrganizationID != nil {
			org, err := provider.GetOrganization(c.Request.Context(), *req.OrganizationID)
			if err != nil {
				AbortWithError(c, ErrDatabaseError)
				return
			}
			if org == nil {
				AbortWithError(c, ErrOrganizationNotFound)
				return
			}
		}

		id, err := provider.CreateRole(c.Request.Context(), storage.Role{
			Name:           req.Name,
			Description:    req.Description,
			OrganizationID: req.OrganizationID,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/roles/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		role, err := provider.GetRole(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if role == nil {
			AbortWithError(c, ErrRoleNotFound)
			return
		}
		c.JSON(http.StatusOK, role)
	})

	r.PUT("/roles/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		existing, err := provider.GetRole(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing == nil {
			AbortWithError(c, ErrRoleNotFound)
			return
		}
		if existing.IsSystemRole {
			AbortWithError(c, ErrSystemRoleImmutable)
			return
		}

		existing.Name = req.Name
		existing.Description = req.Description
		if err := provider.UpdateRole(c.Request.Context(), *existing); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, existing)
	})

	r.DELETE("/roles/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		existing, err := provider.GetRole(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing == nil {
			AbortWithError(c, ErrRoleNotFound)
			return
		}
		if existing.IsSystemRole {
			AbortWithError(c, ErrSystemRoleImmutable)
			return
		}

		if err := provider.DeleteRole(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/roles/:id/permissions", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		perms, err := provider.ListPermissions(c.Request.Context(), &id, nil)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(perms))
	})
}

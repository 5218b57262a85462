package routes

import (
	"net/http"

	"building-access-control/internal/storage"
	"building-access-control/internal/utils"

	"github.com/gin-gonic/gin"
)

type employeeRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	OrganizationID int64  `json:"organization_id" binding:"required"`
	RoleID         *int64 `json:"role_id"`
}

type issueCardRequest struct {
	CardUID string `json:"card_uid"` // generated when absent
}

func EmployeeRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/employees", func(c *gin.Context) {
		var organizationID *int64
		if v := c.Query("organization_id"); v != "" {
			id, err := pathIDValue(v)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			organizationID = &id
		}
		var status *storage.EmployeeStatus
		if v := c.Query("status"); v != "" {
			s := storage.EmployeeStatus(v)
			status = &s
		}

		employees, err := provider.ListEmployees(c.Request.Context(), organizationID, status)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(employees))
	})

	r.POST("/employees", func(c *gin.Context) {
		var req employeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		org, err := provider.GetOrganization(c.Request.Context(), req.OrganizationID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if org == nil {
			AbortWithError(c, ErrOrganizationNotFound)
			return
		}
		if req.RoleID != nil {
			role, err := provider.GetRole(c.Request.Context(), *req.RoleID)
			if err != nil {
				AbortWithError(c, ErrDatabaseError)
				return
			}
			if role == nil {
				AbortWithError(c, ErrRoleNotFound)
				return
			}
		}

		id, err := provider.CreateEmployee(c.Request.Context(), storage.Employee{
			Name:           req.Name,
			Email:          req.Email,
			Status:         storage.EmployeeStatusActive,
			OrganizationID: req.OrganizationID,
			RoleID:         req.RoleID,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	})

	r.GET("/employees/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		employee, err := provider.GetEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if employee == nil {
			AbortWithError(c, ErrEmployeeNotFound)
			return
		}

		card, err := provider.FindCardByEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"employee": employee, "card": card})
	})

	r.PUT("/employees/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req employeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		existing, err := provider.GetEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing == nil {
			AbortWithError(c, ErrEmployeeNotFound)
			return
		}

		existing.Name = req.Name
		existing.Email = req.Email
		existing.RoleID = req.RoleID
		if err := provider.UpdateEmployee(c.Request.Context(), *existing); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, existing)
	})

	r.DELETE("/employees/:id", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := provider.DeleteEmployee(c.Request.Context(), id); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Deactivation pulls the card along: an inactive employee's card must
	// not open doors even if the card row itself was never touched.
	r.POST("/employees/:id/deactivate", func(c *gin.Context) {
		setEmployeeStatus(c, provider, storage.EmployeeStatusInactive, storage.CardStatusInactive)
	})

	r.POST("/employees/:id/activate", func(c *gin.Context) {
		setEmployeeStatus(c, provider, storage.EmployeeStatusActive, storage.CardStatusActive)
	})

	r.POST("/employees/:id/card", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		var req issueCardRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		employee, err := provider.GetEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if employee == nil {
			AbortWithError(c, ErrEmployeeNotFound)
			return
		}

		existing, err := provider.FindCardByEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if existing != nil {
			AbortWithError(c, ErrEmployeeHasCard)
			return
		}

		cardUID := req.CardUID
		if cardUID == "" {
			cardUID = utils.GenerateCardUID()
		}

		cardID, err := provider.CreateCard(c.Request.Context(), storage.AccessCard{
			CardUID:    cardUID,
			EmployeeID: id,
			Status:     storage.CardStatusActive,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": cardID, "card_uid": cardUID})
	})

	r.DELETE("/employees/:id/card", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		card, err := provider.FindCardByEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if card == nil {
			AbortWithError(c, ErrEmployeeHasNoCard)
			return
		}

		if err := provider.SetCardStatus(c.Request.Context(), card.ID, storage.CardStatusBlocked); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Replace marks the current card LOST, removes it, and issues a fresh
	// one in a single operation.
	r.POST("/employees/:id/card/replace", func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			AbortWithError(c, err)
			return
		}

		card, err := provider.FindCardByEmployee(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if card == nil {
			AbortWithError(c, ErrEmployeeHasNoCard)
			return
		}

		if err := provider.SetCardStatus(c.Request.Context(), card.ID, storage.CardStatusLost); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if err := provider.DeleteCard(c.Request.Context(), card.ID); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}

		cardUID := utils.GenerateCardUID()
		cardID, err := provider.CreateCard(c.Request.Context(), storage.AccessCard{
			CardUID:    cardUID,
			EmployeeID: id,
			Status:     storage.CardStatusActive,
		})
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": cardID, "card_uid": cardUID})
	})
}

func setEmployeeStatus(c *gin.Context, provider storage.Provider, status storage.EmployeeStatus, cardStatus storage.CardStatus) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	employee, err := provider.GetEmployee(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, ErrDatabaseError)
		return
	}
	if employee == nil {
		AbortWithError(c, ErrEmployeeNotFound)
		return
	}

	if err := provider.SetEmployeeStatus(c.Request.Context(), id, status); err != nil {
		AbortWithError(c, ErrDatabaseError)
		return
	}

	card, err := provider.FindCardByEmployee(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, ErrDatabaseError)
		return
	}
	if card != nil {
		if err := provider.SetCardStatus(c.Request.Context(), card.ID, cardStatus); err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

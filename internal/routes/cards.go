package routes

import (
	"net/http"

	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

func CardRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.GET("/cards", func(c *gin.Context) {
		var status *storage.CardStatus
		if v := c.Query("status"); v != "" {
			s := storage.CardStatus(v)
			status = &s
		}

		cards, err := provider.ListCards(c.Request.Context(), status)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		c.JSON(http.StatusOK, listResponse(cards))
	})

	r.GET("/cards/:uid", func(c *gin.Context) {
		detail, err := provider.CardByUID(c.Request.Context(), c.Param("uid"))
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if detail == nil {
			AbortWithError(c, ErrCardNotFound)
			return
		}
		c.JSON(http.StatusOK, detail)
	})

	r.POST("/cards/:uid/block", func(c *gin.Context) {
		setCardStatusByUID(c, provider, storage.CardStatusBlocked)
	})

	r.POST("/cards/:uid/report-lost", func(c *gin.Context) {
		setCardStatusByUID(c, provider, storage.CardStatusLost)
	})

	r.POST("/cards/:uid/activate", func(c *gin.Context) {
		setCardStatusByUID(c, provider, storage.CardStatusActive)
	})
}

func setCardStatusByUID(c *gin.Context, provider storage.Provider, status storage.CardStatus) {
	card, err := provider.FindCardByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		AbortWithError(c, ErrDatabaseError)
		return
	}
	if card == nil {
		AbortWithError(c, ErrCardNotFound)
		return
	}

	if err := provider.SetCardStatus(c.Request.Context(), card.ID, status); err != nil {
		AbortWithError(c, ErrDatabaseError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card_uid": card.CardUID, "status": status})
}

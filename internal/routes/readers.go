package routes

import (
	"log/slog"
	"net/http"

	. "building-access-control/internal/config"
	"building-access-control/internal/storage"
	"building-access-control/internal/utils"

	"github.com/gin-gonic/gin"
)

type registrationResponse struct {
	Status   string `json:"status"`
	ReaderID string `json:"reader_id,omitempty"`
	Message  string `json:"message"`
}

// ReaderRoutes handles reader self-registration. A freshly installed reader
// calls /readers/register; it lands in the PENDING pool until an operator
// approves it and issues an API key over the CLI.
func ReaderRoutes(r *gin.RouterGroup, provider storage.Provider) {
	r.POST("/readers/register", func(c *gin.Context) {
		type registrationRequest struct {
			ReaderID string `json:"reader_id"`
			DoorID   *int64 `json:"door_id"`
		}

		var req registrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("Invalid registration request", "error", err)
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		readerID := req.ReaderID
		if readerID != "" {
			if !utils.VerifyReaderID(readerID, []byte(Cfg.Secret)) {
				slog.Warn("Reader ID verification failed on registration", "reader_id", readerID)
				AbortWithError(c, ErrInvalidParameter)
				return
			}
		} else {
			var err error
			readerID, err = utils.GenerateReaderID([]byte(Cfg.Secret))
			if err != nil {
				slog.Error("Failed to generate reader ID", "error", err)
				AbortWithError(c, ErrInternalServer)
				return
			}
		}

		clientIP := c.ClientIP()
		ctx := c.Request.Context()

		reader, err := provider.GetReader(ctx, readerID)
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}

		if reader == nil {
			slog.Info("New reader detected, adding to pending pool", "reader_id", readerID)
			if _, err := provider.CreateReader(ctx, storage.Reader{
				ReaderID: readerID,
				DoorID:   req.DoorID,
				ClientIP: clientIP,
				Status:   storage.ReaderStatusPending,
			}); err != nil {
				slog.Error("Failed to create reader", "reader_id", readerID, "error", err)
				AbortWithError(c, ErrDatabaseError)
				return
			}
			c.JSON(http.StatusAccepted, registrationResponse{
				Status:   "pending",
				ReaderID: readerID,
				Message:  "Reader registration is pending approval",
			})
			return
		}

		// A re-registration from a different address is suspicious
		if reader.ClientIP != clientIP {
			slog.Warn("Client IP mismatch during reader registration",
				"reader_id", readerID, "expected_ip", reader.ClientIP, "actual_ip", clientIP)
			AbortWithError(c, ErrClientIPMismatch)
			return
		}

		switch reader.Status {
		case storage.ReaderStatusApproved:
			c.JSON(http.StatusOK, registrationResponse{
				Status:   "approved",
				ReaderID: readerID,
				Message:  "Reader is approved",
			})
		case storage.ReaderStatusPending:
			slog.Info("Reader registration pending approval", "reader_id", readerID)
			c.JSON(http.StatusAccepted, registrationResponse{
				Status:   "pending",
				ReaderID: readerID,
				Message:  "Reader registration is pending approval",
			})
		case storage.ReaderStatusRejected:
			slog.Warn("Registration attempt for rejected reader", "reader_id", readerID)
			AbortWithError(c, ErrReaderRejected)
		default:
			AbortWithError(c, ErrInternalServer)
		}
	})

	r.GET("/readers/:readerID/status", func(c *gin.Context) {
		reader, err := provider.GetReader(c.Request.Context(), c.Param("readerID"))
		if err != nil {
			AbortWithError(c, ErrDatabaseError)
			return
		}
		if reader == nil {
			AbortWithError(c, ErrReaderNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reader_id": reader.ReaderID, "status": reader.Status})
	})
}

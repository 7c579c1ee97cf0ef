package export

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"mediavault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/media/zip", h.DownloadArchive)
}

type archiveRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

func (h *Handler) DownloadArchive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	filename := fmt.Sprintf("media-%s.zip", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	_, err := h.service.BuildArchive(c.Request.Context(), c.GetInt64("user_id"), req.IDs, c.Writer)
	if err != nil {
		if c.Writer.Written() {
			// Archive bytes already went out, nothing sane left to send.
			c.Abort()
			return
		}
		c.Writer.Header().Del("Content-Type")
		c.Writer.Header().Del("Content-Disposition")
		switch {
		case errors.Is(err, ErrNoIDs):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No IDs provided")
		case errors.Is(err, ErrNoItems):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No accessible items to archive")
		default:
			response.Error(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to build archive")
		}
		return
	}
}

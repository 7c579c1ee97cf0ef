package contact

import (
	"errors"
	"net/http"
	"strconv"

	"mediavault/internal/middleware"
	"mediavault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the owner-scoped routes on the protected /api group
// and the unscoped ones on the admin group.
func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	contactGroup := protected.Group("/contact")
	{
		contactGroup.POST("", h.Create)
		contactGroup.GET("", h.ListMine)
		contactGroup.GET("/:id", h.GetMine)
		contactGroup.PUT("/:id", h.UpdateMine)
		contactGroup.DELETE("/:id", h.DeleteMine)
	}

	adminGroup := admin.Group("/contact")
	{
		adminGroup.GET("", h.AdminList)
		adminGroup.DELETE("/:id", h.AdminDelete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Subject and body are required")
		return
	}

	msg, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) ListMine(c *gin.Context) {
	msgs, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list messages")
		return
	}
	response.Success(c, http.StatusOK, msgs)
}

func (h *Handler) GetMine(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	msg, err := h.service.GetMine(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg)
}

func (h *Handler) UpdateMine(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	msg, err := h.service.UpdateMine(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg)
}

func (h *Handler) DeleteMine(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMine(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Message deleted successfully"})
}

func (h *Handler) AdminList(c *gin.Context) {
	msgs, err := h.service.AdminList(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list messages")
		return
	}
	response.Success(c, http.StatusOK, msgs)
}

func (h *Handler) AdminDelete(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	if err := h.service.AdminDelete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Message deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contact message not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "CONTACT_ERROR", "Failed to process request")
	}
}

func messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return 0, false
	}
	return id, true
}

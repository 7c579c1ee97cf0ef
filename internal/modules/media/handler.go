package media

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"mediavault/internal/pkg/response"
	"mediavault/internal/storage"

	"github.com/gin-gonic/gin"
)

// UploadLimits carries the per-route size bounds from config.
type UploadLimits struct {
	SingleMax int64
	MultiMax  int64
	MaxFiles  int
	LargeMax  int64
}

// Handler manages all HTTP interactions for media items.
type Handler struct {
	service *Service
	limits  UploadLimits
}

func NewHandler(service *Service, limits UploadLimits) *Handler {
	return &Handler{service: service, limits: limits}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	mediaGroup := protected.Group("/media")
	{
		mediaGroup.GET("", h.List)
		mediaGroup.GET("/stats", h.Stats)
		mediaGroup.GET("/deleted", h.ListTrashed)
		mediaGroup.GET("/:id", h.GetOne)
		mediaGroup.GET("/:id/download", h.Download)

		mediaGroup.POST("", h.Create)
		mediaGroup.POST("/multiple", h.CreateMultiple)
		mediaGroup.POST("/large", h.CreateLarge)
		mediaGroup.POST("/:id/favorite", h.ToggleFavorite)

		mediaGroup.PUT("/bulk", h.BulkUpdate)
		mediaGroup.PUT("/:id", h.Update)

		mediaGroup.DELETE("/bulk", h.BulkSoftDelete)
		mediaGroup.DELETE("/:id", h.SoftDelete)
		mediaGroup.DELETE("/:id/permanent", h.HardDelete)

		mediaGroup.PATCH("/:id/restore", h.Restore)
	}
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	result, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), q)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list media items")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetOne(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, err := h.service.GetOne(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *Handler) Create(c *gin.Context) {
	h.createSingle(c, h.limits.SingleMax)
}

// CreateLarge is the same upload with a raised size limit.
func (h *Handler) CreateLarge(c *gin.Context) {
	h.createSingle(c, h.limits.LargeMax)
}

func (h *Handler) createSingle(c *gin.Context, maxSize int64) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file uploaded")
		return
	}

	var req CreateRequest
	_ = c.ShouldBind(&req)

	item, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), fileHeader, maxSize, req)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) CreateMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No files uploaded")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No files uploaded")
		return
	}
	if len(files) > h.limits.MaxFiles {
		response.Error(c, http.StatusBadRequest, "TOO_MANY_FILES",
			fmt.Sprintf("At most %d files per upload", h.limits.MaxFiles))
		return
	}

	var req CreateRequest
	_ = c.ShouldBind(&req)

	items, err := h.service.CreateMany(c.Request.Context(), c.GetInt64("user_id"), files, h.limits.MultiMax, req)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%d files uploaded successfully", len(items)),
		"items":   items,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *Handler) BulkUpdate(c *gin.Context) {
	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	count, err := h.service.BulkUpdate(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeBulkError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":       fmt.Sprintf("%d items updated successfully", count),
		"modifiedCount": count,
	})
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.writeItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Media item deleted successfully"})
}

func (h *Handler) BulkSoftDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	count, err := h.service.BulkSoftDelete(c.Request.Context(), c.GetInt64("user_id"), req.IDs)
	if err != nil {
		h.writeBulkError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%d items deleted successfully", count),
		"deletedCount": count,
	})
}

func (h *Handler) HardDelete(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.service.HardDelete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.writeItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Media item permanently deleted"})
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, err := h.service.Restore(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Media item restored successfully",
		"item":    item,
	})
}

func (h *Handler) ListTrashed(c *gin.Context) {
	items, err := h.service.ListTrashed(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list deleted items")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Stats(c *gin.Context) {
	overview, categories, err := h.service.Stats(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STATS_FAILED", "Failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"overview":   overview,
		"categories": categories,
	})
}

func (h *Handler) Download(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, path, err := h.service.Download(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	c.FileAttachment(path, item.OriginalName)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	favorited, count, err := h.service.ToggleFavorite(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeItemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"favorited":     favorited,
		"favoriteCount": count,
	})
}

func (h *Handler) itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid media item ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Media item not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "MEDIA_ERROR", err.Error())
	}
}

func (h *Handler) writeBulkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoIDs):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No IDs provided")
	case errors.Is(err, ErrNoUpdates):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No updates provided")
	case errors.Is(err, ErrBatchRejected):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Some items not found or access denied")
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "MEDIA_ERROR", err.Error())
	}
}

func (h *Handler) writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoFile):
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file uploaded")
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the size limit")
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "File type not allowed. Supported types: images, videos, documents, audio.")
	case errors.Is(err, storage.ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store upload")
	}
}

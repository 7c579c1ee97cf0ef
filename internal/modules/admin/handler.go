package admin

import (
	"errors"
	"net/http"
	"strconv"

	"mediavault/internal/modules/auth"
	"mediavault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages admin-only HTTP interactions: user management and role
// promotion/demotion.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the role routes under /auth and the user
// management routes under /api/admin. Both groups must already carry auth +
// admin middleware.
func (h *Handler) RegisterRoutes(authAdmin *gin.RouterGroup, apiAdmin *gin.RouterGroup) {
	authAdmin.POST("/promote/:userId", h.Promote)
	authAdmin.POST("/demote/:userId", h.Demote)

	usersGroup := apiAdmin.Group("/users")
	{
		usersGroup.GET("", h.ListUsers)
		usersGroup.PUT("/:id", h.UpdateUser)
		usersGroup.DELETE("/:id", h.DeactivateUser)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list users")
		return
	}

	publicUsers := make([]auth.UserPublic, 0, len(users))
	for _, u := range users {
		publicUsers = append(publicUsers, auth.ToPublic(u))
	}
	response.Success(c, http.StatusOK, publicUsers)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "Email already in use")
		case errors.Is(err, ErrSelfDemotion):
			response.Error(c, http.StatusBadRequest, "SELF_DEMOTION", "You cannot demote yourself")
		case errors.Is(err, ErrLastAdminProtected):
			response.Error(c, http.StatusBadRequest, "LAST_ADMIN", "Cannot demote the last admin. At least one admin must remain in the system.")
		default:
			response.Error(c, http.StatusBadRequest, "UPDATE_FAILED", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, auth.ToPublic(user))
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DEACTIVATE_FAILED", "Failed to deactivate user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Deactivated"})
}

func (h *Handler) Promote(c *gin.Context) {
	id, ok := parseID(c, "userId")
	if !ok {
		return
	}

	user, err := h.service.Promote(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrAlreadyAdmin):
			response.Error(c, http.StatusBadRequest, "ALREADY_ADMIN", "User is already an admin")
		default:
			response.Error(c, http.StatusInternalServerError, "PROMOTE_FAILED", "Failed to promote user")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "User promoted to admin successfully",
		"user":    auth.ToPublic(user),
	})
}

func (h *Handler) Demote(c *gin.Context) {
	id, ok := parseID(c, "userId")
	if !ok {
		return
	}

	user, err := h.service.Demote(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrSelfDemotion):
			response.Error(c, http.StatusBadRequest, "SELF_DEMOTION", "You cannot demote yourself")
		case errors.Is(err, ErrNotAnAdmin):
			response.Error(c, http.StatusBadRequest, "NOT_AN_ADMIN", "User is not an admin")
		case errors.Is(err, ErrLastAdminProtected):
			response.Error(c, http.StatusBadRequest, "LAST_ADMIN", "Cannot demote the last admin. At least one admin must remain in the system.")
		default:
			response.Error(c, http.StatusInternalServerError, "DEMOTE_FAILED", "Failed to demote user")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Admin demoted to user successfully",
		"user":    auth.ToPublic(user),
	})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

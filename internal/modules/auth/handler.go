package auth

import (
	"errors"
	"net/http"

	"mediavault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

// Handler manages all HTTP interactions for authentication and profiles.
type Handler struct {
	service *Service
	google  *GoogleProvider
	origin  string
}

func NewHandler(service *Service, google *GoogleProvider, origin string) *Handler {
	return &Handler{
		service: service,
		google:  google,
		origin:  origin,
	}
}

func (h *Handler) RegisterPublicRoutes(root *gin.RouterGroup) {
	authGroup := root.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/admin-register", h.AdminRegister)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-email", h.VerifyEmail)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.GET("/logout", h.Logout)
		authGroup.GET("/google", h.GoogleLogin)
		authGroup.GET("/google/callback", h.GoogleCallback)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/user")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateMe)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "User already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":    ToPublic(user),
		"message": "Verification code sent to your email",
	})
}

func (h *Handler) AdminRegister(c *gin.Context) {
	var req AdminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.AdminRegister(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAdminCode):
			response.Error(c, http.StatusForbidden, "INVALID_ADMIN_CODE", "Invalid admin code")
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "User already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register admin")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  ToPublic(user),
		"token": token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrAccountDeactivated):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_DEACTIVATED", "Account is deactivated. Please contact an administrator.")
		case errors.Is(err, ErrEmailNotVerified):
			response.Error(c, http.StatusUnauthorized, "EMAIL_NOT_VERIFIED", "Please verify your email before logging in")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  ToPublic(user),
		"token": token,
	})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			response.Error(c, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired code")
			return
		}
		response.Error(c, http.StatusInternalServerError, "VERIFICATION_FAILED", "Failed to verify email")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  ToPublic(user),
		"token": token,
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, http.StatusInternalServerError, "REQUEST_FAILED", "Failed to process request")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If the account exists, a reset code has been sent",
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			response.Error(c, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired code")
			return
		}
		response.Error(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to reset password")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		response.Error(c, http.StatusNotImplemented, "OAUTH_DISABLED", "Google OAuth is not configured")
		return
	}

	state, err := newOAuthState()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "OAUTH_FAILED", "Failed to start OAuth flow")
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthCodeURL(state))
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		response.Error(c, http.StatusNotImplemented, "OAUTH_DISABLED", "Google OAuth is not configured")
		return
	}

	failure := h.origin + "/login?error=oauth_failed"

	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		c.Redirect(http.StatusTemporaryRedirect, failure)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	googleUser, err := h.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, failure)
		return
	}

	_, token, err := h.service.LoginWithGoogle(c.Request.Context(), googleUser.ID, googleUser.Email, googleUser.Name)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, failure)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.origin+"/auth/success?token="+token)
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	response.Success(c, http.StatusOK, ToPublic(user))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "Email already in use")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update profile")
		return
	}

	response.Success(c, http.StatusOK, ToPublic(user))
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"mediavault/internal/domain"
	"mediavault/internal/pkg/jwt"
	"mediavault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ContextUserKey holds the resolved *domain.User for the request.
const ContextUserKey = "current_user"

// UserLoader resolves the acting identity behind a validated token.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth validates the bearer token (Authorization header or "token" cookie),
// loads the user and rejects tokens for missing or deactivated accounts.
func Auth(jwtSvc *jwt.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, no token")
			c.Abort()
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, token failed")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil || !user.IsActive {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, account unavailable")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))
		c.Next()
	}
}

// CurrentUser returns the identity resolved by Auth.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func extractToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

package handler

import (
	"net/http"
	"strings"

	"guessgame-server/internal/models"
	"guessgame-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gin context keys set by AuthMiddleware.
const (
	ContextKeyUserID     = "user_id"
	ContextKeyRoles      = "roles"
	ContextKeyAccessUUID = "access_uuid"
)

// AuthMiddleware validates the Bearer access token on every request and
// populates the gin context with the caller's identity.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Authorization header is missing"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Authorization header must be 'Bearer <token>'"})
			return
		}

		claims, err := authService.VerifyAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, err)
			return
		}
		tokenVerificationsTotal.WithLabelValues("access", "success").Inc()

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRoles, claims.Roles)
		c.Set(ContextKeyAccessUUID, claims.ID)
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// Must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesRaw, exists := c.Get(ContextKeyRoles)
		if !exists {
			zap.L().Error("Roles missing in context, AuthMiddleware not applied?")
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Access denied"})
			return
		}
		roles, _ := rolesRaw.([]string)
		if !models.HasRole(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Access denied"})
			return
		}
		c.Next()
	}
}

// userIDFromContext extracts the authenticated user ID set by
// AuthMiddleware. The bool is false when the middleware did not run.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	return userID, ok
}

// requireUserID aborts with 401 when no authenticated user is present.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		zap.L().Error("User ID missing in context, AuthMiddleware not applied?")
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

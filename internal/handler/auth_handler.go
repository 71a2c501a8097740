package handler

import (
	"regexp"

	"guessgame-server/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 8
	maxPasswordLength = 100
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// AuthHandler handles HTTP requests related to authentication.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", AuthMiddleware(h.authService), h.logout)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/verify-email", h.verifyEmail)
		authGroup.POST("/resend-verification", h.resendVerification)
		authGroup.POST("/password-reset/request", h.requestPasswordReset)
		authGroup.GET("/password-reset/validate", h.validateResetToken)
		authGroup.POST("/password-reset/confirm", h.confirmPasswordReset)
	}
}

package handler

import (
	"net/http"

	"guessgame-server/internal/models"
	"guessgame-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactHandler forwards contact form submissions by email.
type ContactHandler struct {
	emailService service.EmailService
}

func NewContactHandler(emailService service.EmailService) *ContactHandler {
	return &ContactHandler{
		emailService: emailService,
	}
}

func (h *ContactHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/contact", h.submit)
}

func (h *ContactHandler) submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	err := h.emailService.SendContactEmail(c.Request.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		zap.L().Error("Failed to forward contact message", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			models.ErrorResponse{Code: models.ErrCodeInternal, Message: "Failed to send message, please try again later"})
		return
	}

	contactMessagesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

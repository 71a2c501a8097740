package handler

import (
	"net/http"

	"guessgame-server/internal/ai"
	"guessgame-server/internal/models"
	"guessgame-server/internal/service"

	"github.com/gin-gonic/gin"
)

// GameHandler handles HTTP requests for the guessing game itself.
type GameHandler struct {
	gameService service.GameService
	authService service.AuthService
}

func NewGameHandler(gameService service.GameService, authService service.AuthService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		authService: authService,
	}
}

// RegisterRoutes mounts the game endpoints. questionLimiter is applied to
// the question endpoint only; pass nil to skip rate limiting.
func (h *GameHandler) RegisterRoutes(router *gin.Engine, questionLimiter gin.HandlerFunc) {
	gameGroup := router.Group("/api/game")
	gameGroup.Use(AuthMiddleware(h.authService))
	{
		gameGroup.POST("/start", h.startGame)
		if questionLimiter != nil {
			gameGroup.POST("/question", questionLimiter, h.askQuestion)
		} else {
			gameGroup.POST("/question", h.askQuestion)
		}
		gameGroup.POST("/guess", h.submitGuess)
		gameGroup.GET("/current", h.getCurrentGame)
		gameGroup.GET("/history", h.getHistory)
	}
}

func (h *GameHandler) startGame(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	game, err := h.gameService.StartGame(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	gamesStartedTotal.Inc()
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) askQuestion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req askQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	answer, err := h.gameService.AskQuestion(c.Request.Context(), userID, req.Question)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	source := "provider"
	if answer.Answer == ai.FallbackAnswer {
		source = "fallback"
	}
	questionsAskedTotal.WithLabelValues(source).Inc()

	c.JSON(http.StatusOK, answer)
}

func (h *GameHandler) submitGuess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req submitGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	game, err := h.gameService.SubmitGuess(c.Request.Context(), userID, req.GuessedName)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	outcome := "lost"
	if game.GuessedCorrectly {
		outcome = "won"
	}
	guessesTotal.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) getCurrentGame(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	game, err := h.gameService.GetCurrentGame(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) getHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	history, err := h.gameService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

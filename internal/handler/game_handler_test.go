package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"guessgame-server/internal/handler"
	"guessgame-server/internal/models"
	svcmocks "guessgame-server/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupGameRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *svcmocks.GameService, *svcmocks.AuthService) {
	t.Helper()
	gameService := new(svcmocks.GameService)
	authService := new(svcmocks.AuthService)
	authService.On("VerifyAccessToken", mock.Anything, "valid-token").Return(&models.Claims{
		UserID: userID,
		Roles:  []string{models.RoleUser},
		RegisteredClaims: jwt.RegisteredClaims{
			ID: uuid.NewString(),
		},
	}, nil)

	router := gin.New()
	handler.NewGameHandler(gameService, authService).RegisterRoutes(router, nil)
	return router, gameService, authService
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGameHandler_StartGame(t *testing.T) {
	userID := uuid.New()
	router, gameService, _ := setupGameRouter(t, userID)

	game := &models.GameResponseDTO{
		ID:        uuid.New(),
		Status:    models.GameStatusActive,
		StartedAt: time.Now(),
	}
	gameService.On("StartGame", mock.Anything, userID).Return(game, nil).Once()

	rec := doJSON(router, http.MethodPost, "/api/game/start", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp models.GameResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.GameStatusActive, resp.Status)
	assert.Nil(t, resp.RevealedCharacter)
	gameService.AssertExpectations(t)
}

func TestGameHandler_StartGameUnauthorized(t *testing.T) {
	router, gameService, authService := setupGameRouter(t, uuid.New())
	authService.On("VerifyAccessToken", mock.Anything, "bad-token").
		Return(nil, models.ErrTokenInvalid)

	req := httptest.NewRequest(http.MethodPost, "/api/game/start", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	gameService.AssertNotCalled(t, "StartGame", mock.Anything, mock.Anything)
}

func TestGameHandler_AskQuestion(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		router, gameService, _ := setupGameRouter(t, userID)
		gameService.On("AskQuestion", mock.Anything, userID, "Is he a pirate?").
			Return(&models.AnswerResponseDTO{
				Question:       "Is he a pirate?",
				Answer:         "Yes, he is.",
				TotalQuestions: 1,
			}, nil).Once()

		rec := doJSON(router, http.MethodPost, "/api/game/question", `{"question":"Is he a pirate?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.AnswerResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.TotalQuestions)
	})

	t.Run("NoActiveGameReturns404", func(t *testing.T) {
		router, gameService, _ := setupGameRouter(t, userID)
		gameService.On("AskQuestion", mock.Anything, userID, "Hello?").
			Return(nil, models.ErrNoActiveGame).Once()

		rec := doJSON(router, http.MethodPost, "/api/game/question", `{"question":"Hello?"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var errResp models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, models.ErrCodeNoActiveGame, errResp.Code)
	})

	t.Run("MissingBodyReturns400", func(t *testing.T) {
		router, gameService, _ := setupGameRouter(t, userID)

		rec := doJSON(router, http.MethodPost, "/api/game/question", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gameService.AssertNotCalled(t, "AskQuestion", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGameHandler_SubmitGuess(t *testing.T) {
	userID := uuid.New()
	router, gameService, _ := setupGameRouter(t, userID)

	revealed := "Monkey D. Luffy from One Piece"
	guess := "luffy"
	gameService.On("SubmitGuess", mock.Anything, userID, "luffy").
		Return(&models.GameResponseDTO{
			ID:                uuid.New(),
			Status:            models.GameStatusWon,
			GuessedCorrectly:  true,
			FinalGuess:        &guess,
			RevealedCharacter: &revealed,
		}, nil).Once()

	rec := doJSON(router, http.MethodPost, "/api/game/guess", `{"guessed_name":"luffy"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.GameResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.GameStatusWon, resp.Status)
	require.NotNil(t, resp.RevealedCharacter)
	assert.Equal(t, revealed, *resp.RevealedCharacter)
}

func TestGameHandler_GetHistory(t *testing.T) {
	userID := uuid.New()
	router, gameService, _ := setupGameRouter(t, userID)

	revealed := "Naruto Uzumaki from Naruto"
	gameService.On("GetHistory", mock.Anything, userID).
		Return([]models.GameResponseDTO{
			{ID: uuid.New(), Status: models.GameStatusLost, RevealedCharacter: &revealed},
		}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/api/game/history", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []models.GameResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, revealed, *resp[0].RevealedCharacter)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"guessgame-server/internal/ai"
	aimocks "guessgame-server/internal/ai/mocks"
	"guessgame-server/internal/models"
	"guessgame-server/internal/repository/mocks"
	"guessgame-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gameServiceMocks struct {
	gameRepo      *mocks.GameRepository
	characterRepo *mocks.CharacterRepository
	answerer      *aimocks.Answerer
}

func newGameService(t *testing.T) (service.GameService, gameServiceMocks) {
	t.Helper()
	m := gameServiceMocks{
		gameRepo:      new(mocks.GameRepository),
		characterRepo: new(mocks.CharacterRepository),
		answerer:      new(aimocks.Answerer),
	}
	svc := service.NewGameService(m.gameRepo, m.characterRepo, m.answerer, zap.NewNop())
	return svc, m
}

func testCharacter() *models.Character {
	return &models.Character{
		ID:    uuid.New(),
		Name:  "Monkey D. Luffy",
		Anime: "One Piece",
	}
}

func activeSession(userID, characterID uuid.UUID, questions int) *models.GameSession {
	return &models.GameSession{
		ID:             uuid.New(),
		UserID:         userID,
		CharacterID:    characterID,
		Status:         models.GameStatusActive,
		QuestionsCount: questions,
		StartedAt:      time.Now(),
	}
}

func TestGameService_StartGame(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		session := activeSession(userID, character.ID, 0)

		m.characterRepo.On("PickRandomActive", ctx).Return(character, nil).Once()
		m.gameRepo.On("StartSession", ctx, userID, character.ID).Return(session, nil).Once()

		resp, err := svc.StartGame(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, models.GameStatusActive, resp.Status)
		assert.Equal(t, 0, resp.QuestionsCount)
		assert.Nil(t, resp.RevealedCharacter)
		assert.Empty(t, resp.Transcript)
		m.gameRepo.AssertExpectations(t)
		m.characterRepo.AssertExpectations(t)
	})

	t.Run("NoActiveCharacters", func(t *testing.T) {
		svc, m := newGameService(t)
		m.characterRepo.On("PickRandomActive", ctx).Return(nil, models.ErrNoActiveCharacters).Once()

		_, err := svc.StartGame(ctx, userID)

		assert.ErrorIs(t, err, models.ErrNoActiveCharacters)
		m.gameRepo.AssertNotCalled(t, "StartSession", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGameService_AskQuestion(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		session := activeSession(userID, character.ID, 2)

		m.gameRepo.On("GetActiveSession", ctx, userID).Return(session, nil).Once()
		m.characterRepo.On("GetByID", ctx, character.ID).Return(character, nil).Once()
		m.answerer.On("AnswerQuestion", ctx, userID.String(), character, "Is he a pirate?").
			Return("Yes, he is.", ai.UsageInfo{}, nil).Once()
		m.gameRepo.On("AppendQuestion", ctx, userID, session.ID, "Is he a pirate?", "Yes, he is.").
			Return(3, nil).Once()

		resp, err := svc.AskQuestion(ctx, userID, "Is he a pirate?")

		require.NoError(t, err)
		assert.Equal(t, "Yes, he is.", resp.Answer)
		assert.Equal(t, 3, resp.TotalQuestions)
		m.gameRepo.AssertExpectations(t)
		m.answerer.AssertExpectations(t)
	})

	t.Run("NoActiveGame", func(t *testing.T) {
		svc, m := newGameService(t)
		m.gameRepo.On("GetActiveSession", ctx, userID).Return(nil, models.ErrNoActiveGame).Once()

		_, err := svc.AskQuestion(ctx, userID, "Is he a pirate?")

		assert.ErrorIs(t, err, models.ErrNoActiveGame)
		m.gameRepo.AssertNotCalled(t, "AppendQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BlankQuestionRejected", func(t *testing.T) {
		svc, m := newGameService(t)

		_, err := svc.AskQuestion(ctx, userID, "   ")

		assert.ErrorIs(t, err, models.ErrInvalidInput)
		m.gameRepo.AssertNotCalled(t, "GetActiveSession", mock.Anything, mock.Anything)
	})

	t.Run("ProviderFailureDegradesToFallback", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		session := activeSession(userID, character.ID, 5)

		m.gameRepo.On("GetActiveSession", ctx, userID).Return(session, nil).Once()
		m.characterRepo.On("GetByID", ctx, character.ID).Return(character, nil).Once()
		m.answerer.On("AnswerQuestion", ctx, userID.String(), character, "Is he strong?").
			Return("", ai.UsageInfo{}, ai.ErrAnswerFailed).Once()

		resp, err := svc.AskQuestion(ctx, userID, "Is he strong?")

		require.NoError(t, err)
		assert.Equal(t, ai.FallbackAnswer, resp.Answer)
		assert.Equal(t, 5, resp.TotalQuestions)
		m.gameRepo.AssertNotCalled(t, "AppendQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SessionRestartedMidQuestion", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		session := activeSession(userID, character.ID, 1)

		m.gameRepo.On("GetActiveSession", ctx, userID).Return(session, nil).Once()
		m.characterRepo.On("GetByID", ctx, character.ID).Return(character, nil).Once()
		m.answerer.On("AnswerQuestion", ctx, userID.String(), character, "Is he fast?").
			Return("Very.", ai.UsageInfo{}, nil).Once()
		// A restart replaced the session while the answer was generated.
		m.gameRepo.On("AppendQuestion", ctx, userID, session.ID, "Is he fast?", "Very.").
			Return(0, models.ErrNoActiveGame).Once()

		_, err := svc.AskQuestion(ctx, userID, "Is he fast?")

		assert.ErrorIs(t, err, models.ErrNoActiveGame)
		m.gameRepo.AssertExpectations(t)
	})
}

func TestGameService_SubmitGuess(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("ExactNameWins", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		session := activeSession(userID, character.ID, 4)
		guess := "Monkey D. Luffy"
		endedAt := time.Now()
		finished := &models.GameSession{
			ID:               session.ID,
			UserID:           userID,
			CharacterID:      character.ID,
			Status:           models.GameStatusWon,
			QuestionsCount:   4,
			GuessedCorrectly: true,
			FinalGuess:       &guess,
			StartedAt:        session.StartedAt,
			EndedAt:          &endedAt,
		}

		m.gameRepo.On("GetActiveSession", ctx, userID).Return(session, nil).Once()
		m.characterRepo.On("GetByID", ctx, character.ID).Return(character, nil).Once()
		m.gameRepo.On("FinishSession", ctx, userID, guess, true).Return(finished, nil).Once()
		m.gameRepo.On("GetTranscript", ctx, session.ID).Return([]models.GameQuestion{
			{Question: "Pirate?", Answer: "Yes.", AskedAt: time.Now()},
		}, nil).Once()

		resp, err := svc.SubmitGuess(ctx, userID, guess)

		require.NoError(t, err)
		assert.Equal(t, models.GameStatusWon, resp.Status)
		assert.True(t, resp.GuessedCorrectly)
		require.NotNil(t, resp.RevealedCharacter)
		assert.Equal(t, "Monkey D. Luffy from One Piece", *resp.RevealedCharacter)
		require.NotNil(t, resp.FinalGuess)
		assert.Equal(t, guess, *resp.FinalGuess)
		assert.Len(t, resp.Transcript, 1)
		m.gameRepo.AssertExpectations(t)
	})

	t.Run("WrongGuessLoses", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		session := activeSession(userID, character.ID, 1)
		guess := "Naruto"
		finished := &models.GameSession{
			ID:          session.ID,
			UserID:      userID,
			CharacterID: character.ID,
			Status:      models.GameStatusLost,
			FinalGuess:  &guess,
		}

		m.gameRepo.On("GetActiveSession", ctx, userID).Return(session, nil).Once()
		m.characterRepo.On("GetByID", ctx, character.ID).Return(character, nil).Once()
		m.gameRepo.On("FinishSession", ctx, userID, guess, false).Return(finished, nil).Once()
		m.gameRepo.On("GetTranscript", ctx, session.ID).Return([]models.GameQuestion{}, nil).Once()

		resp, err := svc.SubmitGuess(ctx, userID, guess)

		require.NoError(t, err)
		assert.Equal(t, models.GameStatusLost, resp.Status)
		assert.False(t, resp.GuessedCorrectly)
	})

	t.Run("BlankGuessRejected", func(t *testing.T) {
		svc, m := newGameService(t)

		_, err := svc.SubmitGuess(ctx, userID, "")

		assert.ErrorIs(t, err, models.ErrInvalidInput)
		m.gameRepo.AssertNotCalled(t, "FinishSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGameService_GetCurrentGame(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("CharacterWithheld", func(t *testing.T) {
		svc, m := newGameService(t)
		session := activeSession(userID, uuid.New(), 2)

		m.gameRepo.On("GetActiveSession", ctx, userID).Return(session, nil).Once()
		m.gameRepo.On("GetTranscript", ctx, session.ID).Return([]models.GameQuestion{
			{Question: "Q1", Answer: "A1", AskedAt: time.Now()},
			{Question: "Q2", Answer: "A2", AskedAt: time.Now()},
		}, nil).Once()

		resp, err := svc.GetCurrentGame(ctx, userID)

		require.NoError(t, err)
		assert.Nil(t, resp.RevealedCharacter)
		assert.Len(t, resp.Transcript, 2)
	})

	t.Run("NoActiveGame", func(t *testing.T) {
		svc, m := newGameService(t)
		m.gameRepo.On("GetActiveSession", ctx, userID).Return(nil, models.ErrNoActiveGame).Once()

		_, err := svc.GetCurrentGame(ctx, userID)

		assert.ErrorIs(t, err, models.ErrNoActiveGame)
	})
}

func TestGameService_GetHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("AllCharactersRevealed", func(t *testing.T) {
		svc, m := newGameService(t)
		character := testCharacter()
		first := activeSession(userID, character.ID, 3)
		first.Status = models.GameStatusWon
		second := activeSession(userID, character.ID, 1)
		second.Status = models.GameStatusLost

		m.gameRepo.On("ListByUser", ctx, userID).Return([]models.GameSession{*first, *second}, nil).Once()
		m.characterRepo.On("GetByID", ctx, character.ID).Return(character, nil).Twice()
		m.gameRepo.On("GetTranscript", ctx, first.ID).Return([]models.GameQuestion{}, nil).Once()
		m.gameRepo.On("GetTranscript", ctx, second.ID).Return([]models.GameQuestion{}, nil).Once()

		history, err := svc.GetHistory(ctx, userID)

		require.NoError(t, err)
		require.Len(t, history, 2)
		for _, entry := range history {
			require.NotNil(t, entry.RevealedCharacter)
			assert.Equal(t, "Monkey D. Luffy from One Piece", *entry.RevealedCharacter)
		}
	})
}

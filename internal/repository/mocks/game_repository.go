package mocks

import (
	"context"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// GameRepository is a mock implementation of repository.GameRepository.
type GameRepository struct {
	mock.Mock
}

func (m *GameRepository) StartSession(ctx context.Context, userID, characterID uuid.UUID) (*models.GameSession, error) {
	args := m.Called(ctx, userID, characterID)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameRepository) GetActiveSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, error) {
	args := m.Called(ctx, userID)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameRepository) AppendQuestion(ctx context.Context, userID, gameID uuid.UUID, question, answer string) (int, error) {
	args := m.Called(ctx, userID, gameID, question, answer)
	return args.Int(0), args.Error(1)
}

func (m *GameRepository) FinishSession(ctx context.Context, userID uuid.UUID, finalGuess string, won bool) (*models.GameSession, error) {
	args := m.Called(ctx, userID, finalGuess, won)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]models.GameSession)
	return sessions, args.Error(1)
}

func (m *GameRepository) GetTranscript(ctx context.Context, gameID uuid.UUID) ([]models.GameQuestion, error) {
	args := m.Called(ctx, gameID)
	entries, _ := args.Get(0).([]models.GameQuestion)
	return entries, args.Error(1)
}

package mocks

import (
	"context"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// CharacterRepository is a mock implementation of repository.CharacterRepository.
type CharacterRepository struct {
	mock.Mock
}

func (m *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	args := m.Called(ctx, id)
	character, _ := args.Get(0).(*models.Character)
	return character, args.Error(1)
}

func (m *CharacterRepository) PickRandomActive(ctx context.Context) (*models.Character, error) {
	args := m.Called(ctx)
	character, _ := args.Get(0).(*models.Character)
	return character, args.Error(1)
}

func (m *CharacterRepository) ListActive(ctx context.Context) ([]models.Character, error) {
	args := m.Called(ctx)
	characters, _ := args.Get(0).([]models.Character)
	return characters, args.Error(1)
}

func (m *CharacterRepository) ListAll(ctx context.Context) ([]models.Character, error) {
	args := m.Called(ctx)
	characters, _ := args.Get(0).([]models.Character)
	return characters, args.Error(1)
}

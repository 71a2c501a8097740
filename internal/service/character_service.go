package service

import (
	"context"

	"guessgame-server/internal/models"
	"guessgame-server/internal/repository"

	"go.uber.org/zap"
)

// CharacterService exposes the character catalog.
type CharacterService interface {
	// ListActive returns characters eligible for new games.
	ListActive(ctx context.Context) ([]models.Character, error)

	// ListAll returns the whole catalog, including inactive entries.
	ListAll(ctx context.Context) ([]models.Character, error)
}

type characterServiceImpl struct {
	repo   repository.CharacterRepository
	logger *zap.Logger
}

var _ CharacterService = (*characterServiceImpl)(nil)

// NewCharacterService creates a new character catalog service.
func NewCharacterService(repo repository.CharacterRepository, logger *zap.Logger) CharacterService {
	return &characterServiceImpl{
		repo:   repo,
		logger: logger.Named("CharacterService"),
	}
}

func (s *characterServiceImpl) ListActive(ctx context.Context) ([]models.Character, error) {
	return s.repo.ListActive(ctx)
}

func (s *characterServiceImpl) ListAll(ctx context.Context) ([]models.Character, error) {
	return s.repo.ListAll(ctx)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"guessgame-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type pgCharacterRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgCharacterRepository creates a new PostgreSQL character repository.
func NewPgCharacterRepository(db DBTX, logger *zap.Logger) CharacterRepository {
	return &pgCharacterRepository{
		db:     db,
		logger: logger.Named("PgCharacterRepo"),
	}
}

const characterColumns = `
	id, name, anime, gender, age, hair_color, eye_color, occupation,
	personality, powers_abilities, backstory, notable_quotes, relationships,
	appearance_description, character_type, is_active, created_at, updated_at
`

func (r *pgCharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = $1`
	var character models.Character
	err := pgxscan.Get(ctx, r.db, &character, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get character by ID", zap.String("characterID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("error getting character: %w", err)
	}
	return &character, nil
}

func (r *pgCharacterRepository) PickRandomActive(ctx context.Context) (*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE is_active = TRUE ORDER BY random() LIMIT 1`
	var character models.Character
	err := pgxscan.Get(ctx, r.db, &character, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("No active characters available")
			return nil, models.ErrNoActiveCharacters
		}
		r.logger.Error("Failed to pick random character", zap.Error(err))
		return nil, fmt.Errorf("error picking random character: %w", err)
	}
	return &character, nil
}

func (r *pgCharacterRepository) ListActive(ctx context.Context) ([]models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE is_active = TRUE ORDER BY name`
	var characters []models.Character
	if err := pgxscan.Select(ctx, r.db, &characters, query); err != nil {
		r.logger.Error("Failed to list active characters", zap.Error(err))
		return nil, fmt.Errorf("error listing active characters: %w", err)
	}
	return characters, nil
}

func (r *pgCharacterRepository) ListAll(ctx context.Context) ([]models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters ORDER BY name`
	var characters []models.Character
	if err := pgxscan.Select(ctx, r.db, &characters, query); err != nil {
		r.logger.Error("Failed to list characters", zap.Error(err))
		return nil, fmt.Errorf("error listing characters: %w", err)
	}
	return characters, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guessgame-server/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type pgAuthTokenRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgAuthTokenRepository creates a new PostgreSQL repository for
// verification and password reset tokens.
func NewPgAuthTokenRepository(db DBTX, logger *zap.Logger) AuthTokenRepository {
	return &pgAuthTokenRepository{
		db:     db,
		logger: logger.Named("PgAuthTokenRepo"),
	}
}

func (r *pgAuthTokenRepository) Replace(ctx context.Context, token *models.AuthToken) error {
	// UNIQUE(user_id, kind) makes the upsert atomic: a second Replace for
	// the same user/kind overwrites the previous token.
	query := `
		INSERT INTO auth_tokens (token, user_id, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, kind) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, token.Token, token.UserID, token.Kind, token.ExpiresAt)
	if err != nil {
		r.logger.Error("Failed to store auth token",
			zap.String("userID", token.UserID.String()),
			zap.String("kind", string(token.Kind)),
			zap.Error(err))
		return fmt.Errorf("error storing auth token: %w", err)
	}
	return nil
}

func (r *pgAuthTokenRepository) GetByToken(ctx context.Context, token string, kind models.AuthTokenKind) (*models.AuthToken, error) {
	query := `
		SELECT token, user_id, kind, expires_at, created_at
		FROM auth_tokens WHERE token = $1 AND kind = $2
	`
	var at models.AuthToken
	err := r.db.QueryRow(ctx, query, token, kind).
		Scan(&at.Token, &at.UserID, &at.Kind, &at.ExpiresAt, &at.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get auth token", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("error getting auth token: %w", err)
	}
	return &at, nil
}

func (r *pgAuthTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM auth_tokens WHERE token = $1`, token)
	if err != nil {
		r.logger.Error("Failed to delete auth token", zap.Error(err))
		return fmt.Errorf("error deleting auth token: %w", err)
	}
	return nil
}

func (r *pgAuthTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		r.logger.Error("Failed to purge expired auth tokens", zap.Error(err))
		return 0, fmt.Errorf("error purging expired auth tokens: %w", err)
	}
	removed := tag.RowsAffected()
	if removed > 0 {
		r.logger.Info("Purged expired auth tokens", zap.Int64("count", removed))
	}
	return removed, nil
}

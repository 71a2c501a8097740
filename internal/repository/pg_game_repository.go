package repository

import (
	"context"
	"errors"
	"fmt"

	"guessgame-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgGameRepository holds the pool directly because its write paths run
// multi-statement transactions with the user's active row locked.
type pgGameRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgGameRepository creates a new PostgreSQL game session repository.
func NewPgGameRepository(pool *pgxpool.Pool, logger *zap.Logger) GameRepository {
	return &pgGameRepository{
		pool:   pool,
		logger: logger.Named("PgGameRepo"),
	}
}

const gameColumns = `
	id, user_id, character_id, status, questions_count, guessed_correctly,
	final_guess, started_at, ended_at
`

// lockActiveSession fetches the user's ACTIVE session row FOR UPDATE so
// concurrent requests for the same user serialize on it.
func (r *pgGameRepository) lockActiveSession(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.GameSession, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = $1 AND status = 'ACTIVE' FOR UPDATE`
	var session models.GameSession
	err := pgxscan.Get(ctx, tx, &session, query, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoActiveGame
		}
		return nil, fmt.Errorf("error locking active session: %w", err)
	}
	return &session, nil
}

func (r *pgGameRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (r *pgGameRepository) StartSession(ctx context.Context, userID, characterID uuid.UUID) (*models.GameSession, error) {
	var session models.GameSession
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		prior, err := r.lockActiveSession(ctx, tx, userID)
		if err != nil && !errors.Is(err, models.ErrNoActiveGame) {
			return err
		}
		if prior != nil {
			_, err = tx.Exec(ctx,
				`UPDATE games SET status = 'LOST', ended_at = NOW() WHERE id = $1`, prior.ID)
			if err != nil {
				return fmt.Errorf("error abandoning previous session: %w", err)
			}
			r.logger.Info("Previous active session marked lost",
				zap.String("userID", userID.String()),
				zap.String("gameID", prior.ID.String()))
		}

		insert := `
			INSERT INTO games (id, user_id, character_id, status, started_at)
			VALUES ($1, $2, $3, 'ACTIVE', NOW())
			RETURNING ` + gameColumns
		return pgxscan.Get(ctx, tx, &session, insert, uuid.New(), userID, characterID)
	})
	if err != nil {
		r.logger.Error("Failed to start session", zap.String("userID", userID.String()), zap.Error(err))
		return nil, err
	}

	r.logger.Info("Game session started",
		zap.String("userID", userID.String()),
		zap.String("gameID", session.ID.String()))
	return &session, nil
}

func (r *pgGameRepository) GetActiveSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = $1 AND status = 'ACTIVE'`
	var session models.GameSession
	err := pgxscan.Get(ctx, r.pool, &session, query, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoActiveGame
		}
		r.logger.Error("Failed to get active session", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("error getting active session: %w", err)
	}
	return &session, nil
}

func (r *pgGameRepository) AppendQuestion(ctx context.Context, userID, gameID uuid.UUID, question, answer string) (int, error) {
	var count int
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		session, err := r.lockActiveSession(ctx, tx, userID)
		if err != nil {
			return err
		}
		// The answer was generated for a specific session; a restart in
		// between must not attach it to the new one.
		if session.ID != gameID {
			return models.ErrNoActiveGame
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO game_questions (id, game_id, question, answer, asked_at) VALUES ($1, $2, $3, $4, NOW())`,
			uuid.New(), session.ID, question, answer)
		if err != nil {
			return fmt.Errorf("error inserting question: %w", err)
		}

		row := tx.QueryRow(ctx,
			`UPDATE games SET questions_count = questions_count + 1 WHERE id = $1 RETURNING questions_count`,
			session.ID)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("error incrementing question count: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrNoActiveGame) {
			r.logger.Error("Failed to append question", zap.String("userID", userID.String()), zap.Error(err))
		}
		return 0, err
	}
	return count, nil
}

func (r *pgGameRepository) FinishSession(ctx context.Context, userID uuid.UUID, finalGuess string, won bool) (*models.GameSession, error) {
	status := models.GameStatusLost
	if won {
		status = models.GameStatusWon
	}

	var session models.GameSession
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		active, err := r.lockActiveSession(ctx, tx, userID)
		if err != nil {
			return err
		}

		update := `
			UPDATE games
			SET status = $2, guessed_correctly = $3, final_guess = $4, ended_at = NOW()
			WHERE id = $1
			RETURNING ` + gameColumns
		return pgxscan.Get(ctx, tx, &session, update, active.ID, status, won, finalGuess)
	})
	if err != nil {
		if !errors.Is(err, models.ErrNoActiveGame) {
			r.logger.Error("Failed to finish session", zap.String("userID", userID.String()), zap.Error(err))
		}
		return nil, err
	}

	r.logger.Info("Game session finished",
		zap.String("userID", userID.String()),
		zap.String("gameID", session.ID.String()),
		zap.String("status", string(session.Status)))
	return &session, nil
}

func (r *pgGameRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = $1 ORDER BY started_at DESC`
	var sessions []models.GameSession
	if err := pgxscan.Select(ctx, r.pool, &sessions, query, userID); err != nil {
		r.logger.Error("Failed to list sessions", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return sessions, nil
}

func (r *pgGameRepository) GetTranscript(ctx context.Context, gameID uuid.UUID) ([]models.GameQuestion, error) {
	query := `
		SELECT id, game_id, question, answer, asked_at
		FROM game_questions WHERE game_id = $1 ORDER BY asked_at, id
	`
	var entries []models.GameQuestion
	if err := pgxscan.Select(ctx, r.pool, &entries, query, gameID); err != nil {
		r.logger.Error("Failed to get transcript", zap.String("gameID", gameID.String()), zap.Error(err))
		return nil, fmt.Errorf("error getting transcript: %w", err)
	}
	return entries, nil
}

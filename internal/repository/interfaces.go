package repository

import (
	"context"
	"time"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts over *pgxpool.Pool and pgx.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines the interface for user persistence (PostgreSQL).
type UserRepository interface {
	// CreateUser inserts a new user. Returns models.ErrUserAlreadyExists or
	// models.ErrEmailAlreadyExists on unique constraint violations.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns models.ErrUserNotFound if absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns models.ErrUserNotFound if absent.
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetUserByEmail returns models.ErrUserNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// MarkEmailVerified sets email_verified and the verification timestamp.
	MarkEmailVerified(ctx context.Context, userID uuid.UUID, verifiedAt time.Time) error

	// UpdatePasswordHash replaces the user's password hash.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
}

// CharacterRepository defines the interface for the character catalog.
type CharacterRepository interface {
	// GetByID returns models.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Character, error)

	// PickRandomActive selects one active character uniformly at random.
	// Returns models.ErrNoActiveCharacters when the active pool is empty.
	PickRandomActive(ctx context.Context) (*models.Character, error)

	// ListActive returns all characters eligible for new sessions.
	ListActive(ctx context.Context) ([]models.Character, error)

	// ListAll returns every character, active or not. Admin use.
	ListAll(ctx context.Context) ([]models.Character, error)
}

// GameRepository defines the interface for game session persistence.
// StartSession, AppendQuestion and FinishSession each execute as one
// transaction with the user's active row locked, so concurrent requests
// for the same user serialize instead of racing.
type GameRepository interface {
	// StartSession marks any existing ACTIVE session of the user as LOST
	// (with endedAt set) and inserts a new ACTIVE session referencing
	// characterID. Returns the new session.
	StartSession(ctx context.Context, userID, characterID uuid.UUID) (*models.GameSession, error)

	// GetActiveSession returns the user's ACTIVE session, or
	// models.ErrNoActiveGame when there is none.
	GetActiveSession(ctx context.Context, userID uuid.UUID) (*models.GameSession, error)

	// AppendQuestion records a question/answer pair on the user's ACTIVE
	// session and increments its question count, atomically. gameID is
	// the session the answer was generated for: if the active session
	// changed meanwhile (or none remains), models.ErrNoActiveGame is
	// returned and nothing is written. Returns the new count.
	AppendQuestion(ctx context.Context, userID, gameID uuid.UUID, question, answer string) (int, error)

	// FinishSession transitions the user's ACTIVE session to WON or LOST,
	// recording the final guess and end timestamp. Returns the terminal
	// session, or models.ErrNoActiveGame when there is none.
	FinishSession(ctx context.Context, userID uuid.UUID, finalGuess string, won bool) (*models.GameSession, error)

	// ListByUser returns all sessions of the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error)

	// GetTranscript returns the ordered question/answer entries of a session.
	GetTranscript(ctx context.Context, gameID uuid.UUID) ([]models.GameQuestion, error)
}

// AuthTokenRepository defines the interface for single-use email
// verification and password reset tokens.
type AuthTokenRepository interface {
	// Replace deletes any live token for the user/kind pair and inserts
	// the new one, atomically.
	Replace(ctx context.Context, token *models.AuthToken) error

	// GetByToken looks a token up by value regardless of expiry.
	// Returns models.ErrTokenNotFound if absent.
	GetByToken(ctx context.Context, token string, kind models.AuthTokenKind) (*models.AuthToken, error)

	// Delete removes a token by value. Missing rows are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired bulk-deletes all tokens past expiry at the given time.
	// Returns the number of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionTokenRepository defines the interface for the JWT revocation
// store (Redis). Access and refresh token UUIDs map to the owning UserID
// with TTLs matching the token lifetimes.
type SessionTokenRepository interface {
	// SetToken stores both token UUIDs of a freshly issued pair.
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error

	// DeleteTokens removes the given token UUIDs. Returns the number of
	// keys deleted.
	DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error)

	// GetUserIDByAccessUUID returns models.ErrTokenNotFound if the UUID is
	// absent (revoked or expired).
	GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error)

	// GetUserIDByRefreshUUID returns models.ErrTokenNotFound if the UUID is
	// absent (revoked or expired).
	GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error)

	// DeleteTokensByUserID removes every stored token of the user.
	DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

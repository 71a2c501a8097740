package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type pgUserRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL user repository.
func NewPgUserRepository(db DBTX, logger *zap.Logger) UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, roles, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if len(user.Roles) == 0 {
		user.Roles = []string{models.RoleUser}
	}

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Roles, user.EmailVerified)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_email_key":
				r.logger.Warn("Attempt to create user with duplicate email", zap.String("email", user.Email))
				return models.ErrEmailAlreadyExists
			default:
				r.logger.Warn("Attempt to create user with duplicate username", zap.String("username", user.Username))
				return models.ErrUserAlreadyExists
			}
		}
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("error creating user: %w", err)
	}

	r.logger.Info("User created", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return nil
}

const userColumns = `id, username, email, password_hash, roles, email_verified, verified_at, is_banned, created_at, updated_at`

func (r *pgUserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Roles,
		&user.EmailVerified, &user.VerifiedAt, &user.IsBanned, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

func (r *pgUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			r.logger.Error("Failed to get user by username", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			r.logger.Error("Failed to get user by ID", zap.String("userID", id.String()), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			r.logger.Error("Failed to get user by email", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID, verifiedAt time.Time) error {
	query := `
		UPDATE users SET email_verified = TRUE, verified_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, verifiedAt)
	if err != nil {
		r.logger.Error("Failed to mark email verified", zap.String("userID", userID.String()), zap.Error(err))
		return fmt.Errorf("error marking email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	r.logger.Info("Email marked verified", zap.String("userID", userID.String()))
	return nil
}

func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, newPasswordHash)
	if err != nil {
		r.logger.Error("Failed to update password hash", zap.String("userID", userID.String()), zap.Error(err))
		return fmt.Errorf("error updating password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	r.logger.Info("Password hash updated", zap.String("userID", userID.String()))
	return nil
}

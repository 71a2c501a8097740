package service

import (
	"context"
	"time"

	"guessgame-server/internal/models"
	"guessgame-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenService manages single-use email verification and password reset
// tokens. Issuing a token for a user replaces any live token of the same
// kind, so at most one is valid at a time.
type TokenService interface {
	// Issue creates and persists a fresh token for the user.
	Issue(ctx context.Context, userID uuid.UUID, kind models.AuthTokenKind) (string, error)

	// Consume validates the token and deletes it, returning the owning
	// user ID. Returns models.ErrTokenNotFound for unknown tokens and
	// models.ErrTokenExpired for stale ones (deleting the stale record).
	Consume(ctx context.Context, token string, kind models.AuthTokenKind) (uuid.UUID, error)

	// Validate checks the token without consuming it. Same error kinds
	// as Consume; an expired token is still deleted.
	Validate(ctx context.Context, token string, kind models.AuthTokenKind) error

	// PurgeExpired bulk-removes every token past expiry.
	PurgeExpired(ctx context.Context) (int64, error)
}

type tokenServiceImpl struct {
	repo            repository.AuthTokenRepository
	verificationTTL time.Duration
	resetTTL        time.Duration
	logger          *zap.Logger
}

var _ TokenService = (*tokenServiceImpl)(nil)

// NewTokenService creates a new token service with per-kind lifetimes.
func NewTokenService(repo repository.AuthTokenRepository, verificationTTL, resetTTL time.Duration, logger *zap.Logger) TokenService {
	return &tokenServiceImpl{
		repo:            repo,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		logger:          logger.Named("TokenService"),
	}
}

func (s *tokenServiceImpl) ttlFor(kind models.AuthTokenKind) time.Duration {
	if kind == models.TokenKindReset {
		return s.resetTTL
	}
	return s.verificationTTL
}

func (s *tokenServiceImpl) Issue(ctx context.Context, userID uuid.UUID, kind models.AuthTokenKind) (string, error) {
	token := &models.AuthToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		ExpiresAt: time.Now().Add(s.ttlFor(kind)),
	}
	if err := s.repo.Replace(ctx, token); err != nil {
		s.logger.Error("Failed to issue token",
			zap.String("userID", userID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return "", err
	}
	s.logger.Info("Token issued",
		zap.String("userID", userID.String()),
		zap.String("kind", string(kind)),
		zap.Time("expiresAt", token.ExpiresAt))
	return token.Token, nil
}

// lookup fetches the token and handles the expiry path shared by Consume
// and Validate. Expired records are deleted on sight.
func (s *tokenServiceImpl) lookup(ctx context.Context, token string, kind models.AuthTokenKind) (*models.AuthToken, error) {
	at, err := s.repo.GetByToken(ctx, token, kind)
	if err != nil {
		return nil, err
	}
	if at.Expired(time.Now()) {
		if delErr := s.repo.Delete(ctx, at.Token); delErr != nil {
			s.logger.Warn("Failed to delete expired token", zap.Error(delErr))
		}
		s.logger.Info("Token expired",
			zap.String("userID", at.UserID.String()),
			zap.String("kind", string(kind)))
		return nil, models.ErrTokenExpired
	}
	return at, nil
}

func (s *tokenServiceImpl) Consume(ctx context.Context, token string, kind models.AuthTokenKind) (uuid.UUID, error) {
	at, err := s.lookup(ctx, token, kind)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.repo.Delete(ctx, at.Token); err != nil {
		s.logger.Error("Failed to consume token", zap.String("kind", string(kind)), zap.Error(err))
		return uuid.Nil, err
	}
	s.logger.Info("Token consumed",
		zap.String("userID", at.UserID.String()),
		zap.String("kind", string(kind)))
	return at.UserID, nil
}

func (s *tokenServiceImpl) Validate(ctx context.Context, token string, kind models.AuthTokenKind) error {
	_, err := s.lookup(ctx, token, kind)
	return err
}

func (s *tokenServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}

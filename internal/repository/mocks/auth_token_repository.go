package mocks

import (
	"context"
	"time"

	"guessgame-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// AuthTokenRepository is a mock implementation of repository.AuthTokenRepository.
type AuthTokenRepository struct {
	mock.Mock
}

func (m *AuthTokenRepository) Replace(ctx context.Context, token *models.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthTokenRepository) GetByToken(ctx context.Context, token string, kind models.AuthTokenKind) (*models.AuthToken, error) {
	args := m.Called(ctx, token, kind)
	at, _ := args.Get(0).(*models.AuthToken)
	return at, args.Error(1)
}

func (m *AuthTokenRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

package mocks

import (
	"context"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TokenService is a mock implementation of service.TokenService.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) Issue(ctx context.Context, userID uuid.UUID, kind models.AuthTokenKind) (string, error) {
	args := m.Called(ctx, userID, kind)
	return args.String(0), args.Error(1)
}

func (m *TokenService) Consume(ctx context.Context, token string, kind models.AuthTokenKind) (uuid.UUID, error) {
	args := m.Called(ctx, token, kind)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

func (m *TokenService) Validate(ctx context.Context, token string, kind models.AuthTokenKind) error {
	args := m.Called(ctx, token, kind)
	return args.Error(0)
}

func (m *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// EmailService is a mock implementation of service.EmailService.
type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *EmailService) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, to, username string) error {
	args := m.Called(ctx, to, username)
	return args.Error(0)
}

func (m *EmailService) SendContactEmail(ctx context.Context, fromName, fromEmail, subject, message string) error {
	args := m.Called(ctx, fromName, fromEmail, subject, message)
	return args.Error(0)
}

// RecaptchaVerifier is a mock implementation of service.RecaptchaVerifier.
type RecaptchaVerifier struct {
	mock.Mock
}

func (m *RecaptchaVerifier) Verify(ctx context.Context, token, expectedAction string) bool {
	args := m.Called(ctx, token, expectedAction)
	return args.Bool(0)
}

// AuthService is a mock implementation of service.AuthService.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, username, email, password, recaptchaToken string) (*models.User, error) {
	args := m.Called(ctx, username, email, password, recaptchaToken)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, username, password string) (*models.TokenDetails, error) {
	args := m.Called(ctx, username, password)
	td, _ := args.Get(0).(*models.TokenDetails)
	return td, args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) error {
	args := m.Called(ctx, userID, accessUUID, refreshUUID)
	return args.Error(0)
}

func (m *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error) {
	args := m.Called(ctx, refreshToken)
	td, _ := args.Get(0).(*models.TokenDetails)
	return td, args.Error(1)
}

func (m *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*models.Claims)
	return claims, args.Error(1)
}

func (m *AuthService) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthService) ResendVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

// GameService is a mock implementation of service.GameService.
type GameService struct {
	mock.Mock
}

func (m *GameService) StartGame(ctx context.Context, userID uuid.UUID) (*models.GameResponseDTO, error) {
	args := m.Called(ctx, userID)
	game, _ := args.Get(0).(*models.GameResponseDTO)
	return game, args.Error(1)
}

func (m *GameService) AskQuestion(ctx context.Context, userID uuid.UUID, question string) (*models.AnswerResponseDTO, error) {
	args := m.Called(ctx, userID, question)
	answer, _ := args.Get(0).(*models.AnswerResponseDTO)
	return answer, args.Error(1)
}

func (m *GameService) SubmitGuess(ctx context.Context, userID uuid.UUID, guess string) (*models.GameResponseDTO, error) {
	args := m.Called(ctx, userID, guess)
	game, _ := args.Get(0).(*models.GameResponseDTO)
	return game, args.Error(1)
}

func (m *GameService) GetCurrentGame(ctx context.Context, userID uuid.UUID) (*models.GameResponseDTO, error) {
	args := m.Called(ctx, userID)
	game, _ := args.Get(0).(*models.GameResponseDTO)
	return game, args.Error(1)
}

func (m *GameService) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.GameResponseDTO, error) {
	args := m.Called(ctx, userID)
	games, _ := args.Get(0).([]models.GameResponseDTO)
	return games, args.Error(1)
}

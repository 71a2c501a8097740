package service_test

import (
	"context"
	"testing"
	"time"

	"guessgame-server/internal/config"
	"guessgame-server/internal/models"
	repomocks "guessgame-server/internal/repository/mocks"
	"guessgame-server/internal/service"
	svcmocks "guessgame-server/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authServiceMocks struct {
	userRepo     *repomocks.UserRepository
	sessionRepo  *repomocks.SessionTokenRepository
	tokenService *svcmocks.TokenService
	emailService *svcmocks.EmailService
	recaptcha    *svcmocks.RecaptchaVerifier
}

func newAuthService(t *testing.T) (service.AuthService, authServiceMocks) {
	t.Helper()
	m := authServiceMocks{
		userRepo:     new(repomocks.UserRepository),
		sessionRepo:  new(repomocks.SessionTokenRepository),
		tokenService: new(svcmocks.TokenService),
		emailService: new(svcmocks.EmailService),
		recaptcha:    new(svcmocks.RecaptchaVerifier),
	}
	cfg := &config.Config{
		JWTSecret:       "test-jwt-secret",
		PasswordPepper:  "test-pepper",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	svc := service.NewAuthService(m.userRepo, m.sessionRepo, m.tokenService, m.emailService, m.recaptcha, cfg, zap.NewNop())
	return svc, m
}

// hashTestPassword mirrors the production peppered bcrypt scheme.
func hashTestPassword(t *testing.T, password, pepper string) string {
	t.Helper()
	hash, err := service.HashPasswordForTest(password, pepper)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recaptcha.On("Verify", ctx, "captcha-token", "register").Return(true).Once()
		m.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "player1" && u.Email == "p1@example.com" && u.PasswordHash != ""
		})).Return(nil).Once()
		m.tokenService.On("Issue", ctx, mock.Anything, models.TokenKindVerification).
			Return("verify-token", nil).Once()
		m.emailService.On("SendVerificationEmail", ctx, "p1@example.com", "verify-token").
			Return(nil).Once()

		user, err := svc.Register(ctx, "player1", "p1@example.com", "Password1", "captcha-token")

		require.NoError(t, err)
		assert.Equal(t, "player1", user.Username)
		m.userRepo.AssertExpectations(t)
		m.emailService.AssertExpectations(t)
	})

	t.Run("RecaptchaRejected", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recaptcha.On("Verify", ctx, "bad-token", "register").Return(false).Once()

		_, err := svc.Register(ctx, "player1", "p1@example.com", "Password1", "bad-token")

		assert.ErrorIs(t, err, models.ErrRecaptchaFailed)
		m.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recaptcha.On("Verify", ctx, "captcha-token", "register").Return(true).Once()
		m.userRepo.On("CreateUser", ctx, mock.Anything).Return(models.ErrUserAlreadyExists).Once()

		_, err := svc.Register(ctx, "player1", "p1@example.com", "Password1", "captcha-token")

		assert.ErrorIs(t, err, models.ErrUserAlreadyExists)
		m.emailService.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmailFailureDoesNotFailRegistration", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recaptcha.On("Verify", ctx, "captcha-token", "register").Return(true).Once()
		m.userRepo.On("CreateUser", ctx, mock.Anything).Return(nil).Once()
		m.tokenService.On("Issue", ctx, mock.Anything, models.TokenKindVerification).
			Return("verify-token", nil).Once()
		m.emailService.On("SendVerificationEmail", ctx, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		_, err := svc.Register(ctx, "player1", "p1@example.com", "Password1", "captcha-token")

		require.NoError(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	verifiedUser := func(t *testing.T) *models.User {
		return &models.User{
			ID:            uuid.New(),
			Username:      "player1",
			Email:         "p1@example.com",
			PasswordHash:  hashTestPassword(t, "Password1", "test-pepper"),
			Roles:         []string{models.RoleUser},
			EmailVerified: true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := verifiedUser(t)
		m.userRepo.On("GetUserByUsername", ctx, "player1").Return(user, nil).Once()
		m.sessionRepo.On("SetToken", ctx, user.ID, mock.MatchedBy(func(td *models.TokenDetails) bool {
			return td.AccessToken != "" && td.RefreshToken != "" &&
				td.AccessUUID != "" && td.RefreshUUID != ""
		})).Return(nil).Once()

		td, err := svc.Login(ctx, "player1", "Password1")

		require.NoError(t, err)
		assert.NotEmpty(t, td.AccessToken)
		m.sessionRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.userRepo.On("GetUserByUsername", ctx, "player1").Return(verifiedUser(t), nil).Once()

		_, err := svc.Login(ctx, "player1", "wrong")

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		m.sessionRepo.AssertNotCalled(t, "SetToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.userRepo.On("GetUserByUsername", ctx, "ghost").Return(nil, models.ErrUserNotFound).Once()

		_, err := svc.Login(ctx, "ghost", "Password1")

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("EmailNotVerified", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := verifiedUser(t)
		user.EmailVerified = false
		m.userRepo.On("GetUserByUsername", ctx, "player1").Return(user, nil).Once()

		_, err := svc.Login(ctx, "player1", "Password1")

		assert.ErrorIs(t, err, models.ErrEmailNotVerified)
		m.sessionRepo.AssertNotCalled(t, "SetToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BannedUser", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := verifiedUser(t)
		user.IsBanned = true
		m.userRepo.On("GetUserByUsername", ctx, "player1").Return(user, nil).Once()

		_, err := svc.Login(ctx, "player1", "Password1")

		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := &models.User{ID: userID, Username: "player1", Email: "p1@example.com"}
		m.tokenService.On("Consume", ctx, "verify-token", models.TokenKindVerification).
			Return(userID, nil).Once()
		m.userRepo.On("GetUserByID", ctx, userID).Return(user, nil).Once()
		m.userRepo.On("MarkEmailVerified", ctx, userID, mock.AnythingOfType("time.Time")).
			Return(nil).Once()
		m.emailService.On("SendWelcomeEmail", ctx, "p1@example.com", "player1").Return(nil).Once()

		err := svc.VerifyEmail(ctx, "verify-token")

		require.NoError(t, err)
		m.userRepo.AssertExpectations(t)
	})

	t.Run("AlreadyVerified", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := &models.User{ID: userID, EmailVerified: true}
		m.tokenService.On("Consume", ctx, "verify-token", models.TokenKindVerification).
			Return(userID, nil).Once()
		m.userRepo.On("GetUserByID", ctx, userID).Return(user, nil).Once()

		err := svc.VerifyEmail(ctx, "verify-token")

		assert.ErrorIs(t, err, models.ErrEmailAlreadyVerified)
		m.userRepo.AssertNotCalled(t, "MarkEmailVerified", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.tokenService.On("Consume", ctx, "stale", models.TokenKindVerification).
			Return(uuid.Nil, models.ErrTokenExpired).Once()

		err := svc.VerifyEmail(ctx, "stale")

		assert.ErrorIs(t, err, models.ErrTokenExpired)
	})
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownEmailReportsSuccess", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.userRepo.On("GetUserByEmail", ctx, "ghost@example.com").
			Return(nil, models.ErrUserNotFound).Once()

		err := svc.RequestPasswordReset(ctx, "ghost@example.com")

		require.NoError(t, err)
		m.tokenService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := &models.User{ID: uuid.New(), Email: "p1@example.com"}
		m.userRepo.On("GetUserByEmail", ctx, "p1@example.com").Return(user, nil).Once()
		m.tokenService.On("Issue", ctx, user.ID, models.TokenKindReset).
			Return("reset-token", nil).Once()
		m.emailService.On("SendPasswordResetEmail", ctx, "p1@example.com", "reset-token").
			Return(nil).Once()

		err := svc.RequestPasswordReset(ctx, "p1@example.com")

		require.NoError(t, err)
		m.emailService.AssertExpectations(t)
	})
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("SuccessRevokesSessions", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.tokenService.On("Consume", ctx, "reset-token", models.TokenKindReset).
			Return(userID, nil).Once()
		m.userRepo.On("UpdatePasswordHash", ctx, userID, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("x")) != nil && hash != ""
		})).Return(nil).Once()
		m.sessionRepo.On("DeleteTokensByUserID", ctx, userID).Return(int64(2), nil).Once()

		err := svc.ConfirmPasswordReset(ctx, "reset-token", "NewPassword1")

		require.NoError(t, err)
		m.sessionRepo.AssertExpectations(t)
	})
}

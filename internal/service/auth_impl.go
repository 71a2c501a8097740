package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"guessgame-server/internal/config"
	"guessgame-server/internal/models"
	"guessgame-server/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "guessgame-server"

const recaptchaActionRegister = "register"

type authServiceImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionTokenRepository
	tokenService TokenService
	emailService EmailService
	recaptcha    RecaptchaVerifier
	cfg          *config.Config
	logger       *zap.Logger
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionTokenRepository,
	tokenService TokenService,
	emailService EmailService,
	recaptcha RecaptchaVerifier,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		emailService: emailService,
		recaptcha:    recaptcha,
		cfg:          cfg,
		logger:       logger.Named("AuthService"),
	}
}

func (s *authServiceImpl) Register(ctx context.Context, username, email, password, recaptchaToken string) (*models.User, error) {
	s.logger.Info("Registration attempt", zap.String("username", username))

	if !s.recaptcha.Verify(ctx, recaptchaToken, recaptchaActionRegister) {
		s.logger.Warn("Registration rejected by recaptcha", zap.String("username", username))
		return nil, models.ErrRecaptchaFailed
	}

	passwordHash, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        []string{models.RoleUser},
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// The account exists either way; the user can request another mail.
	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Error("Failed to send verification email after registration",
			zap.String("userID", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("userID", user.ID.String()),
		zap.String("username", user.Username))
	return user, nil
}

func (s *authServiceImpl) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.tokenService.Issue(ctx, user.ID, models.TokenKindVerification)
	if err != nil {
		return err
	}
	return s.emailService.SendVerificationEmail(ctx, user.Email, token)
}

func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*models.TokenDetails, error) {
	s.logger.Info("Login attempt", zap.String("username", username))

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("username", username))
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: wrong password", zap.String("username", username))
		return nil, models.ErrInvalidCredentials
	}
	if user.IsBanned {
		s.logger.Warn("Login attempt by banned user", zap.String("userID", user.ID.String()))
		return nil, models.ErrForbidden
	}
	if !user.EmailVerified {
		s.logger.Info("Login rejected: email not verified", zap.String("userID", user.ID.String()))
		return nil, models.ErrEmailNotVerified
	}

	td, err := s.createTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.SetToken(ctx, user.ID, td); err != nil {
		return nil, err
	}

	s.logger.Info("Login successful", zap.String("userID", user.ID.String()))
	return td, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) error {
	deleted, err := s.sessionRepo.DeleteTokens(ctx, userID, accessUUID, refreshUUID)
	if err != nil {
		return err
	}
	s.logger.Info("User logged out",
		zap.String("userID", userID.String()),
		zap.Int64("deleted", deleted))
	return nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error) {
	s.logger.Info("Token refresh attempt")

	claims, err := s.parseToken(refreshTokenString)
	if err != nil {
		return nil, err
	}

	refreshUUID := claims.ID
	storedUserID, err := s.sessionRepo.GetUserIDByRefreshUUID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("refreshUUID", refreshUUID))
			return nil, models.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error checking refresh token: %w", err)
	}
	if storedUserID != claims.UserID {
		s.logger.Error("Refresh token user ID mismatch",
			zap.String("tokenUserID", claims.UserID.String()),
			zap.String("storedUserID", storedUserID.String()))
		return nil, models.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, models.ErrForbidden
	}

	// Rotate: revoke everything the old pair referenced, issue a new one.
	if _, err := s.sessionRepo.DeleteTokensByUserID(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to revoke previous tokens on refresh",
			zap.String("userID", user.ID.String()),
			zap.Error(err))
	}

	td, err := s.createTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.SetToken(ctx, user.ID, td); err != nil {
		return nil, err
	}

	s.logger.Info("Tokens refreshed", zap.String("userID", user.ID.String()))
	return td, nil
}

func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessionRepo.GetUserIDByAccessUUID(ctx, claims.ID); err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Access token revoked", zap.String("accessUUID", claims.ID))
			return nil, models.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error checking access token: %w", err)
	}
	return claims, nil
}

func (s *authServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenService.Consume(ctx, token, models.TokenKindVerification)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return models.ErrEmailAlreadyVerified
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID, time.Now()); err != nil {
		return err
	}

	if err := s.emailService.SendWelcomeEmail(ctx, user.Email, user.Username); err != nil {
		s.logger.Warn("Failed to send welcome email",
			zap.String("userID", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("Email verified", zap.String("userID", userID.String()))
	return nil
}

func (s *authServiceImpl) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return models.ErrEmailAlreadyVerified
	}
	return s.sendVerification(ctx, user)
}

func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// Do not leak which addresses have accounts.
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokenService.Issue(ctx, user.ID, models.TokenKindReset)
	if err != nil {
		return err
	}
	if err := s.emailService.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		s.logger.Error("Failed to send password reset email",
			zap.String("userID", user.ID.String()),
			zap.Error(err))
		return err
	}

	s.logger.Info("Password reset email sent", zap.String("userID", user.ID.String()))
	return nil
}

func (s *authServiceImpl) ValidateResetToken(ctx context.Context, token string) error {
	return s.tokenService.Validate(ctx, token, models.TokenKindReset)
}

func (s *authServiceImpl) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenService.Consume(ctx, token, models.TokenKindReset)
	if err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
		return err
	}

	// Force re-login everywhere after a password change.
	if _, err := s.sessionRepo.DeleteTokensByUserID(ctx, userID); err != nil {
		s.logger.Warn("Failed to revoke sessions after password reset",
			zap.String("userID", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("Password reset completed", zap.String("userID", userID.String()))
	return nil
}

// parseToken validates the signature and standard claims of either token
// kind and maps jwt errors onto the service error taxonomy.
func (s *authServiceImpl) parseToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, models.ErrTokenMalformed
		}
		s.logger.Warn("Failed to parse token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// createTokens generates a signed access/refresh pair for the user.
func (s *authServiceImpl) createTokens(user *models.User) (*models.TokenDetails, error) {
	td := &models.TokenDetails{}
	td.AtExpires = time.Now().Add(s.cfg.AccessTokenTTL).Unix()
	td.AccessUUID = uuid.New().String()
	td.RtExpires = time.Now().Add(s.cfg.RefreshTokenTTL).Unix()
	td.RefreshUUID = uuid.New().String()

	sign := func(jti string, expires int64) (string, error) {
		claims := &models.Claims{
			UserID: user.ID,
			Roles:  user.Roles,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        jti,
				ExpiresAt: jwt.NewNumericDate(time.Unix(expires, 0)),
				Subject:   user.ID.String(),
				Issuer:    tokenIssuer,
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	}

	var err error
	if td.AccessToken, err = sign(td.AccessUUID, td.AtExpires); err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	if td.RefreshToken, err = sign(td.RefreshUUID, td.RtExpires); err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return td, nil
}

// applyPepper keys the password with the server-side pepper via
// HMAC-SHA256 before bcrypt hashing.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password))
	return h.Sum(nil)
}

func hashPassword(password, pepper string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(applyPepper(password, pepper), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash, pepper string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), applyPepper(password, pepper)) == nil
}

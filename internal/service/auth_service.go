package service

import (
	"context"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
)

// AuthService handles registration, login, JWT session management and
// the email verification / password reset flows.
type AuthService interface {
	// Register creates a new account and sends a verification email.
	// The recaptcha token is checked first when recaptcha is enabled.
	Register(ctx context.Context, username, email, password, recaptchaToken string) (*models.User, error)

	// Login authenticates by username and password and issues a token
	// pair. Fails with models.ErrEmailNotVerified until the user has
	// confirmed their email address.
	Login(ctx context.Context, username, password string) (*models.TokenDetails, error)

	// Logout revokes the access/refresh pair referenced by the claims.
	Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) error

	// Refresh exchanges a valid refresh token for a fresh pair, revoking
	// the old one.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)

	// VerifyAccessToken parses and validates an access token, checking
	// the revocation store.
	VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error)

	// VerifyEmail consumes a verification token, marks the address
	// confirmed and sends a welcome email.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification issues a fresh verification token for an
	// unverified address.
	ResendVerification(ctx context.Context, email string) error

	// RequestPasswordReset issues a reset token and mails it. To avoid
	// account enumeration it reports success even for unknown addresses.
	RequestPasswordReset(ctx context.Context, email string) error

	// ValidateResetToken checks a reset token without consuming it.
	ValidateResetToken(ctx context.Context, token string) error

	// ConfirmPasswordReset consumes the token, replaces the password and
	// revokes every active session of the user.
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

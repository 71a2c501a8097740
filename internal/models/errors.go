package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found")

	// User & Authentication Errors
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user with this username already exists")
	ErrEmailAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrEmailNotVerified     = errors.New("email address is not verified")
	ErrEmailAlreadyVerified = errors.New("email address is already verified")
	ErrRecaptchaFailed      = errors.New("recaptcha verification failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")

	// Token Errors (JWT and email verification / password reset tokens)
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// Game Errors
	ErrNoActiveGame       = errors.New("no active game found")
	ErrNoActiveCharacters = errors.New("no active characters available")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)

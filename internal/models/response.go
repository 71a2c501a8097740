package models

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Machine-readable error codes returned alongside HTTP statuses.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_error"
	ErrCodeWrongCredentials = "wrong_credentials"
	ErrCodeDuplicateUser    = "duplicate_username"
	ErrCodeDuplicateEmail   = "duplicate_email"
	ErrCodeUserNotFound     = "user_not_found"
	ErrCodeNotFound         = "not_found"
	ErrCodeNoActiveGame     = "no_active_game"
	ErrCodeTokenInvalid     = "token_invalid"
	ErrCodeTokenExpired     = "token_expired"
	ErrCodeEmailNotVerified = "email_not_verified"
	ErrCodeEmailVerified    = "email_already_verified"
	ErrCodeRecaptcha        = "recaptcha_failed"
	ErrCodeForbidden        = "forbidden"
	ErrCodeInternal         = "internal_error"
)

package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthTokenKind distinguishes the two single-use token lifecycles.
type AuthTokenKind string

const (
	TokenKindVerification AuthTokenKind = "verification"
	TokenKindReset        AuthTokenKind = "reset"
)

// AuthToken is a single-use credential proving control of an email address.
// At most one live token exists per user per kind.
type AuthToken struct {
	Token     string        `db:"token" json:"-"`
	UserID    uuid.UUID     `db:"user_id" json:"userId"`
	Kind      AuthTokenKind `db:"kind" json:"kind"`
	ExpiresAt time.Time     `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

// Expired reports whether the token is past its validity window at now.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

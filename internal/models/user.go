package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered player.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `db:"username" json:"username"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Roles         []string   `db:"roles" json:"roles"`
	EmailVerified bool       `db:"email_verified" json:"emailVerified"`
	VerifiedAt    *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
	IsBanned      bool       `db:"is_banned" json:"isBanned"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

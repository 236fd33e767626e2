package user

import (
	"time"

	"github.com/arpay/arpay/internal/types"
)

// SystemAccountCredential is the fixed placeholder stored for the system
// account. It is not a hash of anything, so no password can ever verify
// against it.
const SystemAccountCredential = "!system-account-no-login"

// User is the acting identity recorded on invoices. Authentication itself is
// owned by an upstream layer; this model only attributes writes.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewSystemAccount builds the well-known non-human actor used when no
// authenticated identity is available. Its credential never authenticates.
func NewSystemAccount(email, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email:        email,
		Name:         name,
		PasswordHash: SystemAccountCredential,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

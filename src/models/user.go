package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in to the notes application
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email" validate:"required,email,max=255"`
	Role         string    `json:"role" validate:"required,oneof=admin editor viewer"`
	PasswordHash string    `json:"-"` // never expose
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user holds one of roles
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

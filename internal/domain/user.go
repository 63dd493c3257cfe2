package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is the profile row the backend creates at sign-up. It is never
// deleted by this layer.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email" validate:"required,email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Role      *string   `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate rejects rows missing fields the backend always sets.
func (u User) Validate() error {
	if u.ID == uuid.Nil {
		return errors.New("user: missing id")
	}
	if u.Email == "" {
		return errors.New("user: missing email")
	}
	if u.CreatedAt.IsZero() {
		return errors.New("user: missing created_at")
	}
	return nil
}

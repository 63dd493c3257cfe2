package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Comment is a note on a ticket thread. No remote operation exists for it
// yet; the type is kept so ticket-detail state can reference it once the
// backend grows a comments table.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content" validate:"required"`
	TicketID  uuid.UUID `json:"ticket_id" validate:"required"`
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Comment) Validate() error {
	if c.ID == uuid.Nil {
		return errors.New("comment: missing id")
	}
	if c.Content == "" {
		return errors.New("comment: missing content")
	}
	if c.TicketID == uuid.Nil {
		return errors.New("comment: missing ticket_id")
	}
	if c.UserID == uuid.Nil {
		return errors.New("comment: missing user_id")
	}
	if c.CreatedAt.IsZero() {
		return errors.New("comment: missing created_at")
	}
	return nil
}

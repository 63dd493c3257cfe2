package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// UnmarshalJSON rejects wire values outside the declared set.
func (s *TicketStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch TicketStatus(raw) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		*s = TicketStatus(raw)
		return nil
	}
	return fmt.Errorf("unknown ticket status %q", raw)
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p *TicketPriority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch TicketPriority(raw) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		*p = TicketPriority(raw)
		return nil
	}
	return fmt.Errorf("unknown ticket priority %q", raw)
}

// Ticket is a support request. The id is client-generated before the first
// round trip; the backend accepts it as-is.
type Ticket struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title" validate:"required"`
	Description  string         `json:"description"`
	Status       TicketStatus   `json:"status" validate:"required"`
	Priority     TicketPriority `json:"priority" validate:"required"`
	AssignedToID *uuid.UUID     `json:"assigned_to_id"`
	CreatedByID  uuid.UUID      `json:"created_by_id" validate:"required"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at"`
}

func (t Ticket) Validate() error {
	if t.ID == uuid.Nil {
		return errors.New("ticket: missing id")
	}
	if t.Title == "" {
		return errors.New("ticket: missing title")
	}
	if t.Status == "" {
		return errors.New("ticket: missing status")
	}
	if t.Priority == "" {
		return errors.New("ticket: missing priority")
	}
	if t.CreatedByID == uuid.Nil {
		return errors.New("ticket: missing created_by_id")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("ticket: missing created_at")
	}
	return nil
}

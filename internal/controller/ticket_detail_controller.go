package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
)

// ErrNoTicketLoaded is returned by mutations invoked before Load succeeded.
var ErrNoTicketLoaded = errors.New("no ticket loaded")

// TicketDetailState is the ticket-detail slice of UI-observable state.
type TicketDetailState struct {
	Ticket       *domain.Ticket
	AssignedUser *domain.User
	Comments     []domain.Comment
	IsLoading    bool
	ErrorMessage string
}

// TicketDetailController owns one ticket's detail view: the ticket itself,
// its assignee's profile, and the status workflow.
type TicketDetailController struct {
	gateway gateway.Service
	ui      Dispatcher
	logger  *zap.Logger

	mu    sync.RWMutex
	state TicketDetailState
}

func NewTicketDetailController(gw gateway.Service, ui Dispatcher, logger *zap.Logger) *TicketDetailController {
	return &TicketDetailController{gateway: gw, ui: ui, logger: logger}
}

// State returns a snapshot of the observable state.
func (c *TicketDetailController) State() TicketDetailState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	if c.state.Ticket != nil {
		ticket := *c.state.Ticket
		state.Ticket = &ticket
	}
	if c.state.AssignedUser != nil {
		user := *c.state.AssignedUser
		state.AssignedUser = &user
	}
	state.Comments = append([]domain.Comment(nil), c.state.Comments...)
	return state
}

// Load fetches the ticket and, only if it has an assignee, that user's
// profile. A failed assignee lookup keeps the ticket and records the
// failure; a failed ticket fetch commits nothing.
func (c *TicketDetailController) Load(ctx context.Context, ticketID uuid.UUID) error {
	c.begin()

	ticket, err := c.gateway.FetchTicket(ctx, ticketID)
	if err != nil {
		return c.fail("load ticket", err)
	}

	var assignee *domain.User
	var assigneeErr error
	if ticket.AssignedToID != nil {
		user, err := c.gateway.FetchUserProfile(ctx, *ticket.AssignedToID)
		if err != nil {
			assigneeErr = err
		} else {
			assignee = &user
		}
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Ticket = &ticket
		c.state.AssignedUser = assignee
		c.state.IsLoading = false
		if assigneeErr != nil {
			c.state.ErrorMessage = "Failed to load assigned user: " + displayMessage(assigneeErr)
		} else {
			c.state.ErrorMessage = ""
		}
		c.mu.Unlock()
	})
	if assigneeErr != nil {
		c.logger.Warn("load assignee failed", zap.Error(assigneeErr))
	}
	return assigneeErr
}

// UpdateStatus moves the ticket to any declared status (transition guards,
// if any, live server-side), stamps updated_at, persists the row and adopts
// the server's version.
func (c *TicketDetailController) UpdateStatus(ctx context.Context, status domain.TicketStatus) error {
	current := c.State().Ticket
	if current == nil {
		return ErrNoTicketLoaded
	}

	c.begin()

	updated := *current
	updated.Status = status
	now := time.Now().UTC()
	updated.UpdatedAt = &now

	saved, err := c.gateway.UpdateTicket(ctx, updated)
	if err != nil {
		return c.fail("update ticket status", err)
	}

	c.commit(saved)
	return nil
}

// Save persists the current in-memory ticket as-is and adopts the server's
// row.
func (c *TicketDetailController) Save(ctx context.Context) error {
	current := c.State().Ticket
	if current == nil {
		return ErrNoTicketLoaded
	}

	c.begin()

	saved, err := c.gateway.UpdateTicket(ctx, *current)
	if err != nil {
		return c.fail("save ticket", err)
	}

	c.commit(saved)
	return nil
}

func (c *TicketDetailController) commit(ticket domain.Ticket) {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Ticket = &ticket
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
}

func (c *TicketDetailController) begin() {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = true
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
}

func (c *TicketDetailController) fail(op string, err error) error {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = false
		c.state.ErrorMessage = displayMessage(err)
		c.mu.Unlock()
	})
	c.logger.Warn(op+" failed", zap.Error(err))
	return err
}

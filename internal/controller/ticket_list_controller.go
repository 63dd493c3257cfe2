package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
)

// TicketListState is the ticket-list slice of UI-observable state.
type TicketListState struct {
	Tickets      []domain.Ticket
	IsLoading    bool
	ErrorMessage string
}

// TicketListController owns the ticket list and the create-ticket flow.
type TicketListController struct {
	gateway gateway.Service
	ui      Dispatcher
	logger  *zap.Logger

	mu    sync.RWMutex
	state TicketListState
}

func NewTicketListController(gw gateway.Service, ui Dispatcher, logger *zap.Logger) *TicketListController {
	return &TicketListController{gateway: gw, ui: ui, logger: logger}
}

// State returns a snapshot of the observable state.
func (c *TicketListController) State() TicketListState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	state.Tickets = append([]domain.Ticket(nil), c.state.Tickets...)
	return state
}

// Refresh replaces the entire list with the backend's newest-first rows.
func (c *TicketListController) Refresh(ctx context.Context) error {
	c.begin()

	tickets, err := c.gateway.FetchTickets(ctx)
	if err != nil {
		return c.fail("fetch tickets", err)
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Tickets = tickets
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
	return nil
}

// Create builds a new open ticket with a client-generated id, persists it,
// and prepends the server's authoritative row to the in-memory list without
// a refetch.
func (c *TicketListController) Create(ctx context.Context, title, description string, priority domain.TicketPriority, createdBy uuid.UUID) error {
	c.begin()

	ticket := domain.Ticket{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		CreatedByID: createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := c.gateway.CreateTicket(ctx, ticket)
	if err != nil {
		return c.fail("create ticket", err)
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Tickets = append([]domain.Ticket{created}, c.state.Tickets...)
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
	return nil
}

func (c *TicketListController) begin() {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = true
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
}

func (c *TicketListController) fail(op string, err error) error {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = false
		c.state.ErrorMessage = displayMessage(err)
		c.mu.Unlock()
	})
	c.logger.Warn(op+" failed", zap.Error(err))
	return err
}

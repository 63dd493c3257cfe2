package controller

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// syncDispatcher applies closures inline; tests own the "UI context".
type syncDispatcher struct{}

func (syncDispatcher) Dispatch(fn func()) { fn() }

// recordingDispatcher snapshots observable state after every applied
// closure so tests can assert properties of intermediate transitions.
type recordingDispatcher struct {
	observe func() (isLoading bool, errorMessage string)

	sawLoadingWithError bool
}

func (d *recordingDispatcher) Dispatch(fn func()) {
	fn()
	if d.observe == nil {
		return
	}
	if loading, msg := d.observe(); loading && msg != "" {
		d.sawLoadingWithError = true
	}
}

var testLogger = zap.NewNop()

// ---------------------------------------------------------------------------
// In-memory stub gateway
// ---------------------------------------------------------------------------

type stubGateway struct {
	session *gateway.Session

	users        map[uuid.UUID]domain.User
	tickets      []domain.Ticket
	resources    []domain.Resource
	transactions []domain.Transaction

	signInUser domain.User
	signInErr  error
	signOutErr error

	fetchTicketErr       error
	fetchTicketsErr      error
	fetchResourcesErr    error
	fetchTransactionsErr error
	createTicketErr      error
	createTransactionErr error
	updateTicketErr      error

	fetchTicketsCalls   int
	profileCalls        int
	lastTransactionsFor uuid.UUID
	createdTickets      []domain.Ticket
	createdTransactions []domain.Transaction
	updatedTickets      []domain.Ticket
}

func newStubGateway() *stubGateway {
	return &stubGateway{users: make(map[uuid.UUID]domain.User)}
}

func (g *stubGateway) SignUp(_ context.Context, email, _ string) (domain.User, error) {
	return g.SignIn(context.Background(), email, "")
}

func (g *stubGateway) SignIn(_ context.Context, _, _ string) (domain.User, error) {
	if g.signInErr != nil {
		return domain.User{}, g.signInErr
	}
	g.session = &gateway.Session{AccessToken: "stub-token", UserID: g.signInUser.ID}
	return g.signInUser, nil
}

func (g *stubGateway) SignOut(_ context.Context) error {
	g.session = nil
	return g.signOutErr
}

func (g *stubGateway) Session() (gateway.Session, bool) {
	if g.session == nil {
		return gateway.Session{}, false
	}
	return *g.session, true
}

func (g *stubGateway) FetchUserProfile(_ context.Context, userID uuid.UUID) (domain.User, error) {
	g.profileCalls++
	user, ok := g.users[userID]
	if !ok {
		return domain.User{}, apperr.NotFound("user profile")
	}
	return user, nil
}

func (g *stubGateway) FetchTicket(_ context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	if g.fetchTicketErr != nil {
		return domain.Ticket{}, g.fetchTicketErr
	}
	for _, ticket := range g.tickets {
		if ticket.ID == ticketID {
			return ticket, nil
		}
	}
	return domain.Ticket{}, apperr.NotFound("ticket")
}

func (g *stubGateway) FetchTickets(_ context.Context) ([]domain.Ticket, error) {
	g.fetchTicketsCalls++
	if g.fetchTicketsErr != nil {
		return nil, g.fetchTicketsErr
	}
	return append([]domain.Ticket(nil), g.tickets...), nil
}

func (g *stubGateway) FetchResources(_ context.Context) ([]domain.Resource, error) {
	if g.fetchResourcesErr != nil {
		return nil, g.fetchResourcesErr
	}
	return append([]domain.Resource(nil), g.resources...), nil
}

func (g *stubGateway) FetchTransactions(_ context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	g.lastTransactionsFor = userID
	if g.fetchTransactionsErr != nil {
		return nil, g.fetchTransactionsErr
	}
	owned := make([]domain.Transaction, 0, len(g.transactions))
	for _, tx := range g.transactions {
		if tx.UserID == userID {
			owned = append(owned, tx)
		}
	}
	return owned, nil
}

func (g *stubGateway) CreateTicket(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if g.createTicketErr != nil {
		return domain.Ticket{}, g.createTicketErr
	}
	g.createdTickets = append(g.createdTickets, ticket)
	return ticket, nil
}

func (g *stubGateway) CreateResource(_ context.Context, resource domain.Resource) (domain.Resource, error) {
	return resource, nil
}

func (g *stubGateway) CreateTransaction(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if g.createTransactionErr != nil {
		return domain.Transaction{}, g.createTransactionErr
	}
	g.createdTransactions = append(g.createdTransactions, tx)
	return tx, nil
}

func (g *stubGateway) UpdateTicket(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if g.updateTicketErr != nil {
		return domain.Ticket{}, g.updateTicketErr
	}
	g.updatedTickets = append(g.updatedTickets, ticket)
	return ticket, nil
}

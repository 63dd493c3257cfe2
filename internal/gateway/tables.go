package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

const orderNewestFirst = "created_at.desc"

// FetchUserProfile looks up a single profile row by primary key.
func (c *Client) FetchUserProfile(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return fetchOne[domain.User](ctx, c, c.tables.Users, "user profile", userID)
}

// FetchTicket looks up a single ticket row by primary key.
func (c *Client) FetchTicket(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	return fetchOne[domain.Ticket](ctx, c, c.tables.Tickets, "ticket", ticketID)
}

// FetchTickets returns the full ticket table, newest first. An empty table
// yields an empty slice, not an error.
func (c *Client) FetchTickets(ctx context.Context) ([]domain.Ticket, error) {
	query := url.Values{"order": {orderNewestFirst}}
	return fetchRows[domain.Ticket](ctx, c, c.tables.Tickets, query)
}

// FetchResources returns the full resource table, newest first.
func (c *Client) FetchResources(ctx context.Context) ([]domain.Resource, error) {
	query := url.Values{"order": {orderNewestFirst}}
	return fetchRows[domain.Resource](ctx, c, c.tables.Resources, query)
}

// FetchTransactions returns the transactions owned by the given user,
// newest first.
func (c *Client) FetchTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	query := url.Values{
		"user_id": {"eq." + userID.String()},
		"order":   {orderNewestFirst},
	}
	return fetchRows[domain.Transaction](ctx, c, c.tables.Transactions, query)
}

// CreateTicket inserts a full ticket row, client-generated id included, and
// returns the server's row as authoritative.
func (c *Client) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if err := c.validate.Struct(ticket); err != nil {
		return domain.Ticket{}, apperr.Insert("invalid ticket", err)
	}
	return insertRow(ctx, c, c.tables.Tickets, ticket)
}

// CreateResource inserts a resource row. No controller action drives this
// beyond fetch; the operation exists for parity with the backend schema.
func (c *Client) CreateResource(ctx context.Context, resource domain.Resource) (domain.Resource, error) {
	if err := c.validate.Struct(resource); err != nil {
		return domain.Resource{}, apperr.Insert("invalid resource", err)
	}
	return insertRow(ctx, c, c.tables.Resources, resource)
}

// CreateTransaction inserts a transaction row.
func (c *Client) CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if err := c.validate.Struct(tx); err != nil {
		return domain.Transaction{}, apperr.Insert("invalid transaction", err)
	}
	return insertRow(ctx, c, c.tables.Transactions, tx)
}

// UpdateTicket replaces the stored row for the ticket's id and returns the
// server's row.
func (c *Client) UpdateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if err := c.validate.Struct(ticket); err != nil {
		return domain.Ticket{}, apperr.Insert("invalid ticket", err)
	}

	query := url.Values{"id": {"eq." + ticket.ID.String()}}
	status, body, err := c.do(ctx, http.MethodPatch, restPath(c.tables.Tickets), query, ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	if status < 200 || status >= 300 {
		return domain.Ticket{}, apperr.Insert(serverMessage(status, body), nil)
	}

	rows, err := domain.DecodeRows[domain.Ticket](body)
	if err != nil {
		return domain.Ticket{}, err
	}
	if len(rows) == 0 {
		return domain.Ticket{}, apperr.NotFound("ticket")
	}
	return rows[0], nil
}

func fetchOne[T domain.Validator](ctx context.Context, c *Client, table, resource string, id uuid.UUID) (T, error) {
	var zero T
	query := url.Values{"id": {"eq." + id.String()}}
	rows, err := fetchRows[T](ctx, c, table, query)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, apperr.NotFound(resource)
	}
	return rows[0], nil
}

func fetchRows[T domain.Validator](ctx context.Context, c *Client, table string, query url.Values) ([]T, error) {
	status, body, err := c.do(ctx, http.MethodGet, restPath(table), query, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apperr.Network(errors.New(serverMessage(status, body)))
	}
	return domain.DecodeRows[T](body)
}

func insertRow[T domain.Validator](ctx context.Context, c *Client, table string, row T) (T, error) {
	var zero T
	status, body, err := c.do(ctx, http.MethodPost, restPath(table), nil, row)
	if err != nil {
		return zero, err
	}
	if status < 200 || status >= 300 {
		return zero, apperr.Insert(serverMessage(status, body), nil)
	}

	rows, err := domain.DecodeRows[T](body)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, apperr.Insert("insert returned no row", nil)
	}
	return rows[0], nil
}

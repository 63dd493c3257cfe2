package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/config"
	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// Service is the sole point of contact with the remote backend. Controllers
// depend on this interface so tests can substitute a stub.
type Service interface {
	SignUp(ctx context.Context, email, password string) (domain.User, error)
	SignIn(ctx context.Context, email, password string) (domain.User, error)
	SignOut(ctx context.Context) error
	Session() (Session, bool)

	FetchUserProfile(ctx context.Context, userID uuid.UUID) (domain.User, error)
	FetchTicket(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error)
	FetchTickets(ctx context.Context) ([]domain.Ticket, error)
	FetchResources(ctx context.Context) ([]domain.Resource, error)
	FetchTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)

	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	CreateResource(ctx context.Context, resource domain.Resource) (domain.Resource, error)
	CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	UpdateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
}

// Client implements Service against the backend's auth and REST surfaces.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	tables     config.TableConfig
	validate   *validator.Validate
	logger     *zap.Logger

	mu      sync.RWMutex
	session *Session
}

// New constructs a gateway client. The client holds no session until a
// successful sign-in or sign-up.
func New(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		tables:     cfg.Tables,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// do performs one round trip and returns the response status and body.
// Transport failures come back as a network error; HTTP status handling is
// the caller's responsibility.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, apperr.Decode("encode request payload", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, apperr.Network(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if session, ok := c.Session(); ok {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	} else if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperr.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, apperr.Network(err)
	}

	c.logger.Debug("backend round trip",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	return resp.StatusCode, data, nil
}

// restPath builds the REST path for a logical table.
func restPath(table string) string {
	return "/rest/v1/" + table
}

// serverMessage extracts a human-oriented message from an error response
// body, falling back to the HTTP status.
func serverMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Msg != "" {
			return payload.Msg
		}
	}
	return fmt.Sprintf("backend returned status %d", status)
}

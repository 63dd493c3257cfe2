package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// TransactionState is the transaction slice of UI-observable state.
type TransactionState struct {
	Transactions []domain.Transaction
	IsLoading    bool
	ErrorMessage string
}

// TransactionController owns the signed-in user's transaction list. Every
// action resolves the owner from the gateway session, never from a caller-
// supplied identifier.
type TransactionController struct {
	gateway gateway.Service
	ui      Dispatcher
	logger  *zap.Logger

	mu    sync.RWMutex
	state TransactionState
}

func NewTransactionController(gw gateway.Service, ui Dispatcher, logger *zap.Logger) *TransactionController {
	return &TransactionController{gateway: gw, ui: ui, logger: logger}
}

// State returns a snapshot of the observable state.
func (c *TransactionController) State() TransactionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	state.Transactions = append([]domain.Transaction(nil), c.state.Transactions...)
	return state
}

// Refresh replaces the list with the session user's rows, newest first.
func (c *TransactionController) Refresh(ctx context.Context) error {
	c.begin()

	session, ok := c.gateway.Session()
	if !ok {
		return c.fail("fetch transactions", apperr.Auth("sign in to view transactions", nil))
	}

	transactions, err := c.gateway.FetchTransactions(ctx, session.UserID)
	if err != nil {
		return c.fail("fetch transactions", err)
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Transactions = transactions
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
	return nil
}

// Add persists a new pending transaction owned by the session user and
// prepends the server's row to the in-memory list without a refetch.
func (c *TransactionController) Add(ctx context.Context, amount decimal.Decimal, description string, txType domain.TransactionType) error {
	c.begin()

	session, ok := c.gateway.Session()
	if !ok {
		return c.fail("add transaction", apperr.Auth("sign in to add transactions", nil))
	}

	tx := domain.Transaction{
		ID:          uuid.New(),
		Amount:      amount,
		Description: description,
		Type:        txType,
		Status:      domain.TransactionStatusPending,
		UserID:      session.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := c.gateway.CreateTransaction(ctx, tx)
	if err != nil {
		return c.fail("add transaction", err)
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Transactions = append([]domain.Transaction{created}, c.state.Transactions...)
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
	return nil
}

func (c *TransactionController) begin() {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = true
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
}

func (c *TransactionController) fail(op string, err error) error {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = false
		c.state.ErrorMessage = displayMessage(err)
		c.mu.Unlock()
	})
	c.logger.Warn(op+" failed", zap.Error(err))
	return err
}

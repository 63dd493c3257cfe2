package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

func signedInStub(userID uuid.UUID) *stubGateway {
	gw := newStubGateway()
	gw.session = &gateway.Session{AccessToken: "stub-token", UserID: userID}
	return gw
}

func TestTransactionsRefreshUsesSessionUser(t *testing.T) {
	me := uuid.New()
	gw := signedInStub(me)
	gw.transactions = []domain.Transaction{
		{
			ID:        uuid.New(),
			Amount:    decimal.NewFromInt(40),
			Type:      domain.TransactionTypeDeposit,
			Status:    domain.TransactionStatusCompleted,
			UserID:    me,
			CreatedAt: time.Now().UTC(),
		},
		{
			ID:        uuid.New(),
			Amount:    decimal.NewFromInt(15),
			Type:      domain.TransactionTypePayment,
			Status:    domain.TransactionStatusPending,
			UserID:    uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
	}

	c := NewTransactionController(gw, syncDispatcher{}, testLogger)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if gw.lastTransactionsFor != me {
		t.Fatalf("fetched for %s, want the session user %s", gw.lastTransactionsFor, me)
	}
	state := c.State()
	if len(state.Transactions) != 1 || state.Transactions[0].UserID != me {
		t.Fatalf("transactions = %+v", state.Transactions)
	}
}

func TestTransactionsRefreshRequiresSession(t *testing.T) {
	c := NewTransactionController(newStubGateway(), syncDispatcher{}, testLogger)

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail while signed out")
	}
	state := c.State()
	if state.ErrorMessage == "" || state.IsLoading {
		t.Fatalf("expected settled error state: %+v", state)
	}
}

func TestTransactionsFailureLeavesState(t *testing.T) {
	me := uuid.New()
	gw := signedInStub(me)
	gw.transactions = []domain.Transaction{
		{
			ID:        uuid.New(),
			Amount:    decimal.NewFromInt(5),
			Type:      domain.TransactionTypeRefund,
			Status:    domain.TransactionStatusCompleted,
			UserID:    me,
			CreatedAt: time.Now().UTC(),
		},
	}

	c := NewTransactionController(gw, syncDispatcher{}, testLogger)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	gw.fetchTransactionsErr = apperr.Network(errors.New("connection refused"))
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure")
	}

	state := c.State()
	if len(state.Transactions) != 1 {
		t.Fatalf("data must be untouched on failure, got %d rows", len(state.Transactions))
	}
	if state.ErrorMessage == "" {
		t.Fatal("expected a non-empty error message")
	}
	if state.IsLoading {
		t.Fatal("loading must be cleared after the call settles")
	}
}

func TestTransactionsAddPrependsServerRow(t *testing.T) {
	me := uuid.New()
	gw := signedInStub(me)

	c := NewTransactionController(gw, syncDispatcher{}, testLogger)
	amount := decimal.RequireFromString("25.50")
	if err := c.Add(context.Background(), amount, "Slip rental", domain.TransactionTypePayment); err != nil {
		t.Fatalf("add: %v", err)
	}

	state := c.State()
	if len(state.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(state.Transactions))
	}
	added := state.Transactions[0]
	if added.UserID != me {
		t.Fatalf("owner = %s, want the session user %s", added.UserID, me)
	}
	if added.Status != domain.TransactionStatusPending {
		t.Fatalf("new transactions start pending, got %s", added.Status)
	}
	if !added.Amount.Equal(amount) {
		t.Fatalf("amount = %s", added.Amount)
	}
	if len(gw.createdTransactions) != 1 {
		t.Fatalf("expected the row to be persisted, got %d", len(gw.createdTransactions))
	}
}

func TestTransactionsAddRequiresSession(t *testing.T) {
	c := NewTransactionController(newStubGateway(), syncDispatcher{}, testLogger)
	err := c.Add(context.Background(), decimal.NewFromInt(1), "x", domain.TransactionTypeDeposit)
	if err == nil {
		t.Fatal("expected add to fail while signed out")
	}
	if len(c.State().Transactions) != 0 {
		t.Fatal("nothing may be inserted while signed out")
	}
}

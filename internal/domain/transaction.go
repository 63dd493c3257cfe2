package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enumerates the direction/intent of a financial entry.
type TransactionType string

const (
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch TransactionType(raw) {
	case TransactionTypePayment, TransactionTypeRefund, TransactionTypeDeposit, TransactionTypeWithdrawal:
		*t = TransactionType(raw)
		return nil
	}
	return fmt.Errorf("unknown transaction type %q", raw)
}

// TransactionStatus enumerates settlement states.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch TransactionStatus(raw) {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		*s = TransactionStatus(raw)
		return nil
	}
	return fmt.Errorf("unknown transaction status %q", raw)
}

// Transaction is a financial entry owned by a single user.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	Amount      decimal.Decimal   `json:"amount" validate:"required"`
	Description string            `json:"description"`
	Type        TransactionType   `json:"type" validate:"required"`
	Status      TransactionStatus `json:"status" validate:"required"`
	UserID      uuid.UUID         `json:"user_id" validate:"required"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at"`
}

func (t Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return errors.New("transaction: missing id")
	}
	if t.Type == "" {
		return errors.New("transaction: missing type")
	}
	if t.Status == "" {
		return errors.New("transaction: missing status")
	}
	if t.UserID == uuid.Nil {
		return errors.New("transaction: missing user_id")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("transaction: missing created_at")
	}
	return nil
}

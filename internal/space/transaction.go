// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes income from expense.
type TransactionType string

// Transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense entry within a space.
//
// CategoryID may dangle if the category is later deleted; consumers
// substitute a placeholder presentation. Type is not cross-checked against
// the linked category's type.
type Transaction struct {
	ID          ulid.ULID
	SpaceID     ulid.ULID
	CategoryID  ulid.ULID
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Description string
	Date        time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTransactionInput carries the fields required to record a transaction.
type NewTransactionInput struct {
	SpaceID     ulid.ULID
	CategoryID  ulid.ULID
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Description string
	Date        time.Time
	Notes       string
}

// Validate checks input shape and business rules. It never touches the store.
func (in NewTransactionInput) Validate() error {
	if in.SpaceID.Compare(ulid.ULID{}) == 0 {
		return oops.Code("TX_INVALID_INPUT").Errorf("space ID is required")
	}
	if in.CategoryID.Compare(ulid.ULID{}) == 0 {
		return oops.Code("TX_INVALID_INPUT").Errorf("category ID is required")
	}
	if !in.Type.Valid() {
		return oops.Code("TX_INVALID_INPUT").
			With("type", string(in.Type)).
			Errorf("transaction type must be income or expense")
	}
	if !in.Amount.IsPositive() {
		return oops.Code("TX_INVALID_INPUT").
			With("amount", in.Amount.String()).
			Errorf("amount must be greater than zero")
	}
	if in.Description == "" {
		return oops.Code("TX_INVALID_INPUT").Errorf("description is required")
	}
	if in.Date.IsZero() {
		return oops.Code("TX_INVALID_INPUT").Errorf("date is required")
	}
	return nil
}

// TransactionRepository manages transaction persistence.
type TransactionRepository interface {
	// Create stores a new transaction.
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction.
	GetByID(ctx context.Context, id ulid.ULID) (*Transaction, error)

	// ListBySpace returns a space's transactions, newest date first.
	ListBySpace(ctx context.Context, spaceID ulid.ULID) ([]*Transaction, error)

	// Update updates an existing transaction.
	Update(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction.
	Delete(ctx context.Context, id ulid.ULID) error
}

// TransactionService provides transaction CRUD within a space.
type TransactionService struct {
	transactions TransactionRepository
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactions TransactionRepository) (*TransactionService, error) {
	if transactions == nil {
		return nil, oops.Errorf("transaction repository is required")
	}
	return &TransactionService{transactions: transactions}, nil
}

// Create validates and records a transaction.
func (s *TransactionService) Create(ctx context.Context, in NewTransactionInput) (*Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now().UTC()
	tx := &Transaction{
		ID:          ulid.Make(),
		SpaceID:     in.SpaceID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Currency:    currency,
		Description: in.Description,
		Date:        in.Date,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, oops.Code("TX_CREATE_FAILED").
			With("space_id", in.SpaceID.String()).
			Wrap(err)
	}
	return tx, nil
}

// List returns a space's transactions, newest date first.
func (s *TransactionService) List(ctx context.Context, spaceID ulid.ULID) ([]*Transaction, error) {
	txs, err := s.transactions.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, oops.Code("TX_LIST_FAILED").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	return txs, nil
}

// Update validates and persists changes to an existing transaction.
func (s *TransactionService) Update(ctx context.Context, id ulid.ULID, in NewTransactionInput) (*Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "TX_NOT_FOUND", "TX_UPDATE_FAILED", "id", id.String())
	}

	existing.CategoryID = in.CategoryID
	existing.Type = in.Type
	existing.Amount = in.Amount
	if in.Currency != "" {
		existing.Currency = in.Currency
	}
	existing.Description = in.Description
	existing.Date = in.Date
	existing.Notes = in.Notes
	existing.UpdatedAt = time.Now().UTC()

	if err := s.transactions.Update(ctx, existing); err != nil {
		return nil, wrapNotFound(err, "TX_NOT_FOUND", "TX_UPDATE_FAILED", "id", id.String())
	}
	return existing, nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, id ulid.ULID) error {
	if err := s.transactions.Delete(ctx, id); err != nil {
		return wrapNotFound(err, "TX_NOT_FOUND", "TX_DELETE_FAILED", "id", id.String())
	}
	return nil
}

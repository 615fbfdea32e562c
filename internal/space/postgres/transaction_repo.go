// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/shopspring/decimal"

	"github.com/moneyspace/moneyspace/internal/space"
)

// TransactionRepository implements space.TransactionRepository using PostgreSQL.
type TransactionRepository struct {
	pool poolIface
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool poolIface) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create stores a new transaction. Amounts travel as their decimal string
// representation so NUMERIC precision is preserved end to end.
func (r *TransactionRepository) Create(ctx context.Context, tx *space.Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, space_id, category_id, type, amount, currency, description, date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		tx.ID.String(),
		tx.SpaceID.String(),
		tx.CategoryID.String(),
		string(tx.Type),
		tx.Amount.String(),
		tx.Currency,
		tx.Description,
		tx.Date,
		tx.Notes,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TX_INSERT_FAILED").
			With("operation", "insert transaction").
			With("space_id", tx.SpaceID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id ulid.ULID) (*space.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, space_id, category_id, type, amount::text, currency, description, date, notes, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, id.String())

	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TX_NOT_FOUND").
			With("id", id.String()).
			Wrap(space.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TX_GET_FAILED").
			With("operation", "get transaction by id").
			With("id", id.String()).
			Wrap(err)
	}
	return tx, nil
}

// ListBySpace returns a space's transactions, newest date first.
func (r *TransactionRepository) ListBySpace(ctx context.Context, spaceID ulid.ULID) ([]*space.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, space_id, category_id, type, amount::text, currency, description, date, notes, created_at, updated_at
		FROM transactions
		WHERE space_id = $1
		ORDER BY date DESC, created_at DESC
	`, spaceID.String())
	if err != nil {
		return nil, oops.Code("TX_LIST_FAILED").
			With("operation", "list transactions").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var txs []*space.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, oops.Code("TX_SCAN_FAILED").
				With("operation", "scan transaction").
				Wrap(err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TX_LIST_FAILED").
			With("operation", "iterate transactions").
			Wrap(err)
	}
	return txs, nil
}

// Update updates an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *space.Transaction) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET category_id = $2, type = $3, amount = $4, currency = $5,
		    description = $6, date = $7, notes = $8, updated_at = $9
		WHERE id = $1
	`,
		tx.ID.String(),
		tx.CategoryID.String(),
		string(tx.Type),
		tx.Amount.String(),
		tx.Currency,
		tx.Description,
		tx.Date,
		tx.Notes,
		tx.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TX_UPDATE_FAILED").
			With("operation", "update transaction").
			With("id", tx.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TX_NOT_FOUND").
			With("id", tx.ID.String()).
			Wrap(space.ErrNotFound)
	}
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("TX_DELETE_FAILED").
			With("operation", "delete transaction").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TX_NOT_FOUND").
			With("id", id.String()).
			Wrap(space.ErrNotFound)
	}
	return nil
}

// scanTransaction scans a single row into a Transaction.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTransaction(row pgx.Row) (*space.Transaction, error) {
	var (
		idStr         string
		spaceIDStr    string
		categoryIDStr string
		typ           string
		amountStr     string
		currency      string
		description   string
		date          time.Time
		notes         string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(&idStr, &spaceIDStr, &categoryIDStr, &typ, &amountStr, &currency,
		&description, &date, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TX_SCAN_FAILED").
			With("operation", "scan transaction").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TX_INVALID_ID").With("id", idStr).Wrap(err)
	}
	sid, err := ulid.Parse(spaceIDStr)
	if err != nil {
		return nil, oops.Code("TX_INVALID_SPACE_ID").With("space_id", spaceIDStr).Wrap(err)
	}
	cid, err := ulid.Parse(categoryIDStr)
	if err != nil {
		return nil, oops.Code("TX_INVALID_CATEGORY_ID").With("category_id", categoryIDStr).Wrap(err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, oops.Code("TX_INVALID_AMOUNT").With("amount", amountStr).Wrap(err)
	}

	return &space.Transaction{
		ID:          id,
		SpaceID:     sid,
		CategoryID:  cid,
		Type:        space.TransactionType(typ),
		Amount:      amount,
		Currency:    currency,
		Description: description,
		Date:        date,
		Notes:       notes,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ space.TransactionRepository = (*TransactionRepository)(nil)

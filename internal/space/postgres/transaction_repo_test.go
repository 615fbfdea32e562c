// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyspace/moneyspace/internal/space"
)

var txColumns = []string{
	"id", "space_id", "category_id", "type", "amount", "currency",
	"description", "date", "notes", "created_at", "updated_at",
}

func testTransaction() *space.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &space.Transaction{
		ID:          ulid.Make(),
		SpaceID:     ulid.Make(),
		CategoryID:  ulid.Make(),
		Type:        space.TypeExpense,
		Amount:      decimal.RequireFromString("50000.50"),
		Currency:    "VND",
		Description: "lunch",
		Date:        now,
		Notes:       "pho",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	ctx := context.Background()

	mock := newPoolMock(t)
	repo := NewTransactionRepository(mock)

	tx := testTransaction()
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(tx.ID.String(), tx.SpaceID.String(), tx.CategoryID.String(), "expense",
			"50000.5", tx.Currency, tx.Description, tx.Date, tx.Notes, tx.CreatedAt, tx.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(ctx, tx))
}

func TestTransactionRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored transaction with exact amount", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewTransactionRepository(mock)

		tx := testTransaction()
		rows := pgxmock.NewRows(txColumns).
			AddRow(tx.ID.String(), tx.SpaceID.String(), tx.CategoryID.String(), "expense",
				"50000.5000", tx.Currency, tx.Description, tx.Date, tx.Notes, tx.CreatedAt, tx.UpdatedAt)
		mock.ExpectQuery(`SELECT id, space_id, category_id, type, amount::text`).
			WithArgs(tx.ID.String()).
			WillReturnRows(rows)

		got, err := repo.GetByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(tx.Amount), "want %s, got %s", tx.Amount, got.Amount)
		assert.Equal(t, tx.CategoryID, got.CategoryID)
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewTransactionRepository(mock)

		id := ulid.Make()
		mock.ExpectQuery(`SELECT id, space_id, category_id, type, amount::text`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(txColumns))

		_, err := repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, space.ErrNotFound)
	})
}

func TestTransactionRepository_ListBySpace(t *testing.T) {
	ctx := context.Background()

	mock := newPoolMock(t)
	repo := NewTransactionRepository(mock)

	tx := testTransaction()
	rows := pgxmock.NewRows(txColumns).
		AddRow(tx.ID.String(), tx.SpaceID.String(), tx.CategoryID.String(), "expense",
			"50000.5", tx.Currency, tx.Description, tx.Date, tx.Notes, tx.CreatedAt, tx.UpdatedAt)
	mock.ExpectQuery(`SELECT id, space_id, category_id, type, amount::text`).
		WithArgs(tx.SpaceID.String()).
		WillReturnRows(rows)

	got, err := repo.ListBySpace(ctx, tx.SpaceID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(tx.Amount))
}

func TestTransactionRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the row", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewTransactionRepository(mock)

		tx := testTransaction()
		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tx.ID.String(), tx.CategoryID.String(), "expense", "50000.5",
				tx.Currency, tx.Description, tx.Date, tx.Notes, tx.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(ctx, tx))
	})

	t.Run("zero rows affected maps to ErrNotFound", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewTransactionRepository(mock)

		tx := testTransaction()
		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tx.ID.String(), tx.CategoryID.String(), "expense", "50000.5",
				tx.Currency, tx.Description, tx.Date, tx.Notes, tx.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, tx)
		require.Error(t, err)
		assert.ErrorIs(t, err, space.ErrNotFound)
	})
}

func TestTransactionRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the row", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewTransactionRepository(mock)

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM transactions`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("zero rows affected maps to ErrNotFound", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewTransactionRepository(mock)

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM transactions`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, space.ErrNotFound)
	})
}

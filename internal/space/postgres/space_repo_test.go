// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyspace/moneyspace/internal/space"
)

func newPoolMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		mock.Close()
	})
	return mock
}

func testSpace() *space.Space {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &space.Space{
		ID:           ulid.Make(),
		Name:         "Family Budget",
		PasswordHash: "$argon2id$hash",
		OwnerID:      ulid.Make(),
		Currencies:   []string{"VND"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSpaceRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts a space row", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		sp := testSpace()
		mock.ExpectExec(`INSERT INTO spaces`).
			WithArgs(sp.ID.String(), sp.Name, sp.PasswordHash, sp.OwnerID.String(),
				sp.Currencies, sp.CreatedAt, sp.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(ctx, sp))
	})

	t.Run("wraps database errors", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		sp := testSpace()
		mock.ExpectExec(`INSERT INTO spaces`).
			WithArgs(sp.ID.String(), sp.Name, sp.PasswordHash, sp.OwnerID.String(),
				sp.Currencies, sp.CreatedAt, sp.UpdatedAt).
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, sp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestSpaceRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored space", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		sp := testSpace()
		rows := pgxmock.NewRows([]string{"id", "name", "password_hash", "owner_id", "currencies", "created_at", "updated_at"}).
			AddRow(sp.ID.String(), sp.Name, sp.PasswordHash, sp.OwnerID.String(), sp.Currencies, sp.CreatedAt, sp.UpdatedAt)
		mock.ExpectQuery(`SELECT id, name, password_hash, owner_id, currencies, created_at, updated_at`).
			WithArgs(sp.ID.String()).
			WillReturnRows(rows)

		got, err := repo.GetByID(ctx, sp.ID)
		require.NoError(t, err)
		assert.Equal(t, sp.ID, got.ID)
		assert.Equal(t, sp.PasswordHash, got.PasswordHash)
		assert.Equal(t, sp.Currencies, got.Currencies)
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		id := ulid.Make()
		mock.ExpectQuery(`SELECT id, name, password_hash, owner_id, currencies, created_at, updated_at`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "password_hash", "owner_id", "currencies", "created_at", "updated_at"}))

		got, err := repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, space.ErrNotFound)
	})
}

func TestSpaceRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the hash", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		id := ulid.Make()
		mock.ExpectExec(`UPDATE spaces SET password_hash`).
			WithArgs(id.String(), "$argon2id$newhash", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdatePassword(ctx, id, "$argon2id$newhash"))
	})

	t.Run("zero rows affected maps to ErrNotFound", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		id := ulid.Make()
		mock.ExpectExec(`UPDATE spaces SET password_hash`).
			WithArgs(id.String(), "$argon2id$newhash", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdatePassword(ctx, id, "$argon2id$newhash")
		require.Error(t, err)
		assert.ErrorIs(t, err, space.ErrNotFound)
	})
}

func TestSpaceRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the row", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM spaces`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("zero rows affected maps to ErrNotFound", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM spaces`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, space.ErrNotFound)
	})
}

func TestSpaceRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summaries newest first", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		id1 := ulid.Make()
		id2 := ulid.Make()
		now := time.Now().UTC()
		currency := "USD"
		rows := pgxmock.NewRows([]string{"id", "name", "currency", "created_at"}).
			AddRow(id1.String(), "Travel Fund", &currency, now).
			AddRow(id2.String(), "Family Budget", (*string)(nil), now.Add(-time.Hour))
		mock.ExpectQuery(`SELECT id, name, currencies`).
			WillReturnRows(rows)

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "USD", got[0].Currency)
		// Null currency falls back to the default.
		assert.Equal(t, space.DefaultCurrency, got[1].Currency)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock := newPoolMock(t)
		repo := NewSpaceRepository(mock)

		mock.ExpectQuery(`SELECT id, name, currencies`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.List(ctx)
		require.Error(t, err)
	})
}

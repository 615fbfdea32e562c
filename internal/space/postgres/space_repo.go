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

	"github.com/moneyspace/moneyspace/internal/space"
)

// SpaceRepository implements space.SpaceRepository using PostgreSQL.
type SpaceRepository struct {
	pool poolIface
}

// NewSpaceRepository creates a new SpaceRepository.
func NewSpaceRepository(pool poolIface) *SpaceRepository {
	return &SpaceRepository{pool: pool}
}

// Create stores a new space.
func (r *SpaceRepository) Create(ctx context.Context, sp *space.Space) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO spaces (id, name, password_hash, owner_id, currencies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		sp.ID.String(),
		sp.Name,
		sp.PasswordHash,
		sp.OwnerID.String(),
		sp.Currencies,
		sp.CreatedAt,
		sp.UpdatedAt,
	)
	if err != nil {
		return oops.Code("SPACE_INSERT_FAILED").
			With("operation", "insert space").
			With("name", sp.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a space by ID, including its password hash.
func (r *SpaceRepository) GetByID(ctx context.Context, id ulid.ULID) (*space.Space, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, password_hash, owner_id, currencies, created_at, updated_at
		FROM spaces
		WHERE id = $1
	`, id.String())

	sp, err := scanSpace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SPACE_NOT_FOUND").
			With("id", id.String()).
			Wrap(space.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SPACE_GET_FAILED").
			With("operation", "get space by id").
			With("id", id.String()).
			Wrap(err)
	}
	return sp, nil
}

// Update persists a new name and currency list and returns the updated record.
func (r *SpaceRepository) Update(ctx context.Context, id ulid.ULID, name string, currencies []string) (*space.Space, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE spaces
		SET name = $2, currencies = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, name, password_hash, owner_id, currencies, created_at, updated_at
	`, id.String(), name, currencies, time.Now().UTC())

	sp, err := scanSpace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SPACE_NOT_FOUND").
			With("id", id.String()).
			Wrap(space.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SPACE_UPDATE_FAILED").
			With("operation", "update space").
			With("id", id.String()).
			Wrap(err)
	}
	return sp, nil
}

// UpdatePassword overwrites only the password hash.
func (r *SpaceRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE spaces SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, id.String(), passwordHash, time.Now().UTC())
	if err != nil {
		return oops.Code("SPACE_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SPACE_NOT_FOUND").
			With("id", id.String()).
			Wrap(space.ErrNotFound)
	}
	return nil
}

// Delete removes a space. Memberships, categories, transactions and grants
// go with it via ON DELETE CASCADE.
func (r *SpaceRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM spaces WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("SPACE_DELETE_FAILED").
			With("operation", "delete space").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SPACE_NOT_FOUND").
			With("id", id.String()).
			Wrap(space.ErrNotFound)
	}
	return nil
}

// List returns non-secret summaries ordered newest-created-first.
func (r *SpaceRepository) List(ctx context.Context) ([]space.SpaceSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, currencies[1], created_at
		FROM spaces
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, oops.Code("SPACE_LIST_FAILED").
			With("operation", "list spaces").
			Wrap(err)
	}
	defer rows.Close()

	var summaries []space.SpaceSummary
	for rows.Next() {
		var (
			idStr     string
			name      string
			currency  *string
			createdAt time.Time
		)
		if err := rows.Scan(&idStr, &name, &currency, &createdAt); err != nil {
			return nil, oops.Code("SPACE_SCAN_FAILED").
				With("operation", "scan space summary").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("SPACE_INVALID_ID").
				With("id", idStr).
				Wrap(err)
		}
		summary := space.SpaceSummary{
			ID:        id,
			Name:      name,
			Currency:  space.DefaultCurrency,
			CreatedAt: createdAt,
		}
		if currency != nil && *currency != "" {
			summary.Currency = *currency
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SPACE_LIST_FAILED").
			With("operation", "iterate spaces").
			Wrap(err)
	}
	return summaries, nil
}

// scanSpace scans a single row into a Space.
// Callers are responsible for handling pgx.ErrNoRows.
func scanSpace(row pgx.Row) (*space.Space, error) {
	var (
		idStr      string
		name       string
		hash       string
		ownerIDStr string
		currencies []string
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&idStr, &name, &hash, &ownerIDStr, &currencies, &createdAt, &updatedAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("SPACE_SCAN_FAILED").
			With("operation", "scan space").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SPACE_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	ownerID, err := ulid.Parse(ownerIDStr)
	if err != nil {
		return nil, oops.Code("SPACE_INVALID_OWNER_ID").
			With("owner_id", ownerIDStr).
			Wrap(err)
	}

	return &space.Space{
		ID:           id,
		Name:         name,
		PasswordHash: hash,
		OwnerID:      ownerID,
		Currencies:   currencies,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// Compile-time interface check.
var _ space.SpaceRepository = (*SpaceRepository)(nil)

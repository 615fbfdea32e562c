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

// GrantRepository implements space.GrantRepository using PostgreSQL.
type GrantRepository struct {
	pool poolIface
}

// NewGrantRepository creates a new GrantRepository.
func NewGrantRepository(pool poolIface) *GrantRepository {
	return &GrantRepository{pool: pool}
}

// Create stores a new access grant.
func (r *GrantRepository) Create(ctx context.Context, g *space.AccessGrant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO access_grants (id, space_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		g.ID.String(),
		g.SpaceID.String(),
		g.TokenHash,
		g.ExpiresAt,
		g.CreatedAt,
	)
	if err != nil {
		return oops.Code("GRANT_INSERT_FAILED").
			With("operation", "insert grant").
			With("space_id", g.SpaceID.String()).
			Wrap(err)
	}
	return nil
}

// GetByTokenHash retrieves a grant by its token hash.
func (r *GrantRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*space.AccessGrant, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, space_id, token_hash, expires_at, created_at
		FROM access_grants
		WHERE token_hash = $1
	`, tokenHash)

	var (
		idStr      string
		spaceIDStr string
		hash       string
		expiresAt  time.Time
		createdAt  time.Time
	)
	err := row.Scan(&idStr, &spaceIDStr, &hash, &expiresAt, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GRANT_NOT_FOUND").Wrap(space.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GRANT_GET_FAILED").
			With("operation", "get grant by token hash").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("GRANT_INVALID_ID").With("id", idStr).Wrap(err)
	}
	sid, err := ulid.Parse(spaceIDStr)
	if err != nil {
		return nil, oops.Code("GRANT_INVALID_SPACE_ID").With("space_id", spaceIDStr).Wrap(err)
	}

	return &space.AccessGrant{
		ID:        id,
		SpaceID:   sid,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}, nil
}

// DeleteBySpace removes all grants for a space.
func (r *GrantRepository) DeleteBySpace(ctx context.Context, spaceID ulid.ULID) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM access_grants WHERE space_id = $1
	`, spaceID.String())
	if err != nil {
		return 0, oops.Code("GRANT_DELETE_FAILED").
			With("operation", "delete grants by space").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpired removes all expired grants.
func (r *GrantRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM access_grants WHERE expires_at < NOW()
	`)
	if err != nil {
		return 0, oops.Code("GRANT_DELETE_FAILED").
			With("operation", "delete expired grants").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// Compile-time interface check.
var _ space.GrantRepository = (*GrantRepository)(nil)

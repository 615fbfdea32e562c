// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/moneyspace/moneyspace/internal/space"
)

// MembershipRepository implements space.MembershipRepository using PostgreSQL.
type MembershipRepository struct {
	pool poolIface
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(pool poolIface) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// Create stores a new membership.
func (r *MembershipRepository) Create(ctx context.Context, m *space.Membership) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO space_members (id, space_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		m.ID.String(),
		m.SpaceID.String(),
		m.UserID.String(),
		string(m.Role),
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("MEMBER_ALREADY_EXISTS").
				With("space_id", m.SpaceID.String()).
				With("user_id", m.UserID.String()).
				Wrap(err)
		}
		return oops.Code("MEMBER_INSERT_FAILED").
			With("operation", "insert membership").
			With("space_id", m.SpaceID.String()).
			Wrap(err)
	}
	return nil
}

// ListBySpace returns all memberships of a space.
func (r *MembershipRepository) ListBySpace(ctx context.Context, spaceID ulid.ULID) ([]*space.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, space_id, user_id, role, created_at
		FROM space_members
		WHERE space_id = $1
		ORDER BY created_at
	`, spaceID.String())
	if err != nil {
		return nil, oops.Code("MEMBER_LIST_FAILED").
			With("operation", "list memberships").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var members []*space.Membership
	for rows.Next() {
		var (
			idStr      string
			spaceIDStr string
			userIDStr  string
			role       string
			createdAt  time.Time
		)
		if err := rows.Scan(&idStr, &spaceIDStr, &userIDStr, &role, &createdAt); err != nil {
			return nil, oops.Code("MEMBER_SCAN_FAILED").
				With("operation", "scan membership").
				Wrap(err)
		}

		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("MEMBER_INVALID_ID").With("id", idStr).Wrap(err)
		}
		sid, err := ulid.Parse(spaceIDStr)
		if err != nil {
			return nil, oops.Code("MEMBER_INVALID_SPACE_ID").With("space_id", spaceIDStr).Wrap(err)
		}
		uid, err := ulid.Parse(userIDStr)
		if err != nil {
			return nil, oops.Code("MEMBER_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
		}

		members = append(members, &space.Membership{
			ID:        id,
			SpaceID:   sid,
			UserID:    uid,
			Role:      space.Role(role),
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("MEMBER_LIST_FAILED").
			With("operation", "iterate memberships").
			Wrap(err)
	}
	return members, nil
}

// Compile-time interface check.
var _ space.MembershipRepository = (*MembershipRepository)(nil)

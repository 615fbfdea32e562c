// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package postgres

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/moneyspace/moneyspace/internal/space"
)

// CategoryRepository implements space.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool poolIface
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool poolIface) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// CreateBatch stores categories in one statement. ON CONFLICT DO NOTHING
// on (space_id, name, type) makes a retried batch converge instead of
// duplicating rows.
func (r *CategoryRepository) CreateBatch(ctx context.Context, cats []*space.Category) error {
	if len(cats) == 0 {
		return nil
	}

	const insert = `
		INSERT INTO categories (id, space_id, name, type, icon, color, is_system, created_at)
		SELECT unnest($1::text[]), unnest($2::text[]), unnest($3::text[]), unnest($4::text[]),
		       unnest($5::text[]), unnest($6::text[]), unnest($7::bool[]), unnest($8::timestamptz[])
		ON CONFLICT (space_id, name, type) DO NOTHING
	`

	ids := make([]string, len(cats))
	spaceIDs := make([]string, len(cats))
	names := make([]string, len(cats))
	types := make([]string, len(cats))
	icons := make([]string, len(cats))
	colors := make([]string, len(cats))
	system := make([]bool, len(cats))
	created := make([]time.Time, len(cats))
	for i, c := range cats {
		ids[i] = c.ID.String()
		spaceIDs[i] = c.SpaceID.String()
		names[i] = c.Name
		types[i] = string(c.Type)
		icons[i] = c.Icon
		colors[i] = c.Color
		system[i] = c.IsSystem
		created[i] = c.CreatedAt
	}

	_, err := r.pool.Exec(ctx, insert, ids, spaceIDs, names, types, icons, colors, system, created)
	if err != nil {
		return oops.Code("CATEGORY_INSERT_FAILED").
			With("operation", "insert categories").
			With("count", len(cats)).
			Wrap(err)
	}
	return nil
}

// ListBySpace returns a space's categories ordered by name.
func (r *CategoryRepository) ListBySpace(ctx context.Context, spaceID ulid.ULID, typeFilter space.TransactionType) ([]*space.Category, error) {
	query := `
		SELECT id, space_id, name, type, icon, color, is_system, created_at
		FROM categories
		WHERE space_id = $1
	`
	args := []any{spaceID.String()}
	if typeFilter != "" {
		query += ` AND type = $2`
		args = append(args, string(typeFilter))
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("operation", "list categories").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var cats []*space.Category
	for rows.Next() {
		var (
			idStr      string
			spaceIDStr string
			name       string
			typ        string
			icon       string
			color      string
			isSystem   bool
			createdAt  time.Time
		)
		if err := rows.Scan(&idStr, &spaceIDStr, &name, &typ, &icon, &color, &isSystem, &createdAt); err != nil {
			return nil, oops.Code("CATEGORY_SCAN_FAILED").
				With("operation", "scan category").
				Wrap(err)
		}

		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("CATEGORY_INVALID_ID").With("id", idStr).Wrap(err)
		}
		sid, err := ulid.Parse(spaceIDStr)
		if err != nil {
			return nil, oops.Code("CATEGORY_INVALID_SPACE_ID").With("space_id", spaceIDStr).Wrap(err)
		}

		cats = append(cats, &space.Category{
			ID:        id,
			SpaceID:   sid,
			Name:      name,
			Type:      space.TransactionType(typ),
			Icon:      icon,
			Color:     color,
			IsSystem:  isSystem,
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("operation", "iterate categories").
			Wrap(err)
	}
	return cats, nil
}

// Compile-time interface check.
var _ space.CategoryRepository = (*CategoryRepository)(nil)

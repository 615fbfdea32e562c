// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Category classifies transactions within a single space.
//
// Icon is an opaque display token resolved by the presentation layer;
// it is never validated at the data-model level.
type Category struct {
	ID        ulid.ULID
	SpaceID   ulid.ULID
	Name      string
	Type      TransactionType
	Icon      string
	Color     string
	IsSystem  bool
	CreatedAt time.Time
}

// categorySeed is one entry of the fixed default catalog.
type categorySeed struct {
	name  string
	typ   TransactionType
	icon  string
	color string
}

// defaultCatalog is the fixed seed set applied to every new space:
// 3 income and 7 expense categories. Not configurable at call time.
var defaultCatalog = []categorySeed{
	{"Lương", TypeIncome, "💼", "#10b981"},
	{"Thưởng", TypeIncome, "🎁", "#3b82f6"},
	{"Thu nhập khác", TypeIncome, "💰", "#06b6d4"},
	{"Ăn uống", TypeExpense, "🍔", "#ef4444"},
	{"Di chuyển", TypeExpense, "🚗", "#f59e0b"},
	{"Mua sắm", TypeExpense, "🛒", "#ec4899"},
	{"Nhà cửa", TypeExpense, "🏠", "#6366f1"},
	{"Giải trí", TypeExpense, "🎮", "#a855f7"},
	{"Sức khỏe", TypeExpense, "⚕️", "#14b8a6"},
	{"Giáo dục", TypeExpense, "📚", "#0ea5e9"},
}

// DefaultCategories builds the default category set for a new space.
// Entries carry fresh IDs and is_system=true.
func DefaultCategories(spaceID ulid.ULID) []*Category {
	now := time.Now().UTC()
	cats := make([]*Category, 0, len(defaultCatalog))
	for _, seed := range defaultCatalog {
		cats = append(cats, &Category{
			ID:        ulid.Make(),
			SpaceID:   spaceID,
			Name:      seed.name,
			Type:      seed.typ,
			Icon:      seed.icon,
			Color:     seed.color,
			IsSystem:  true,
			CreatedAt: now,
		})
	}
	return cats
}

// FallbackIcon is the display token substituted for unknown icon keys.
const FallbackIcon = "🏷️"

// knownIcons is the render-time icon catalog.
var knownIcons = map[string]struct{}{
	"💼": {}, "🎁": {}, "💰": {}, "🍔": {}, "🚗": {},
	"🛒": {}, "🏠": {}, "🎮": {}, "⚕️": {}, "📚": {}, "💸": {},
}

// ResolveIcon maps an icon token to a renderable handle. It is total:
// unknown keys resolve to FallbackIcon, never an error.
func ResolveIcon(token string) string {
	if _, ok := knownIcons[token]; ok {
		return token
	}
	return FallbackIcon
}

// CategoryRepository manages category persistence.
type CategoryRepository interface {
	// CreateBatch stores categories in one statement. The insert is
	// idempotent per (space, name, type) so a retried batch is a no-op.
	CreateBatch(ctx context.Context, cats []*Category) error

	// ListBySpace returns a space's categories ordered by name.
	// typeFilter narrows to income or expense when non-empty.
	ListBySpace(ctx context.Context, spaceID ulid.ULID, typeFilter TransactionType) ([]*Category, error)
}

// CategoryService provides read access to a space's categories.
type CategoryService struct {
	categories CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories CategoryRepository) (*CategoryService, error) {
	if categories == nil {
		return nil, oops.Errorf("category repository is required")
	}
	return &CategoryService{categories: categories}, nil
}

// List returns the categories of a space, optionally filtered by type.
func (s *CategoryService) List(ctx context.Context, spaceID ulid.ULID, typeFilter TransactionType) ([]*Category, error) {
	if typeFilter != "" && !typeFilter.Valid() {
		return nil, oops.Code("CATEGORY_INVALID_TYPE").
			With("type", string(typeFilter)).
			Errorf("category type must be income or expense")
	}
	cats, err := s.categories.ListBySpace(ctx, spaceID, typeFilter)
	if err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	return cats, nil
}

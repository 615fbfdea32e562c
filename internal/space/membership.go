// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role binds a principal to a space with a level of authority.
type Role string

// RoleOwner is the only role produced by current flows.
const RoleOwner Role = "owner"

// Membership links a principal identifier to a space.
//
// Every space has at least one membership with RoleOwner, established in
// the same logical transaction as the space row. If that fails during
// creation, the space must not survive.
type Membership struct {
	ID        ulid.ULID
	SpaceID   ulid.ULID
	UserID    ulid.ULID
	Role      Role
	CreatedAt time.Time
}

// NewMembership creates a validated Membership.
func NewMembership(spaceID, userID ulid.ULID, role Role) (*Membership, error) {
	if spaceID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("MEMBER_INVALID_SPACE").Errorf("space ID cannot be zero")
	}
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("MEMBER_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if role == "" {
		return nil, oops.Code("MEMBER_INVALID_ROLE").Errorf("role cannot be empty")
	}
	return &Membership{
		ID:        ulid.Make(),
		SpaceID:   spaceID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MembershipRepository manages membership persistence.
type MembershipRepository interface {
	// Create stores a new membership.
	Create(ctx context.Context, m *Membership) error

	// ListBySpace returns all memberships of a space.
	ListBySpace(ctx context.Context, spaceID ulid.ULID) ([]*Membership, error)
}

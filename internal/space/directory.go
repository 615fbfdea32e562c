// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DirectoryService lists non-secret space metadata for the selection UI.
// Read-only and side-effect-free; no authentication is required to
// enumerate spaces, only the password is protected.
type DirectoryService struct {
	spaces SpaceRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(spaces SpaceRepository) (*DirectoryService, error) {
	if spaces == nil {
		return nil, oops.Errorf("space repository is required")
	}
	return &DirectoryService{spaces: spaces}, nil
}

// List returns summaries of all spaces, newest-created-first.
// Summaries never include the password hash.
func (s *DirectoryService) List(ctx context.Context) ([]SpaceSummary, error) {
	summaries, err := s.spaces.List(ctx)
	if err != nil {
		return nil, oops.Code("SPACE_LIST_FAILED").Wrap(err)
	}
	if summaries == nil {
		summaries = []SpaceSummary{}
	}
	return summaries, nil
}

// Get returns a single space, redacted. Knowing the id grants no access;
// the projection carries no credential material.
func (s *DirectoryService) Get(ctx context.Context, id ulid.ULID) (*Space, error) {
	sp, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "SPACE_NOT_FOUND", "SPACE_GET_FAILED", "space_id", id.String())
	}
	return sp.Redacted(), nil
}

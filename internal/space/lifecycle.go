// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Category seeding retry policy. Seeding is best-effort: after the retries
// are exhausted the failure is logged and swallowed, never surfaced to the
// caller and never compensated.
const (
	seedMaxRetries   = 2
	seedInitialDelay = 100 * time.Millisecond
)

// LifecycleService orchestrates the credential lifecycle of a space:
// create, verify, reset, update, delete.
//
// Create performs three strictly sequential writes: the space row, the
// owning membership, and the default categories. The membership write
// decides whether the space is allowed to exist; if it fails, the space
// row is compensated (deleted) before the error returns. Category seeding
// happens after the space is committed-valid and is best-effort.
type LifecycleService struct {
	spaces     SpaceRepository
	members    MembershipRepository
	categories CategoryRepository
	grants     GrantRepository
	hasher     PasswordHasher
	logger     *slog.Logger
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	spaces SpaceRepository,
	members MembershipRepository,
	categories CategoryRepository,
	grants GrantRepository,
	hasher PasswordHasher,
) (*LifecycleService, error) {
	return NewLifecycleServiceWithLogger(spaces, members, categories, grants, hasher, slog.Default())
}

// NewLifecycleServiceWithLogger creates a LifecycleService with an explicit logger.
func NewLifecycleServiceWithLogger(
	spaces SpaceRepository,
	members MembershipRepository,
	categories CategoryRepository,
	grants GrantRepository,
	hasher PasswordHasher,
	logger *slog.Logger,
) (*LifecycleService, error) {
	if spaces == nil {
		return nil, oops.Errorf("space repository is required")
	}
	if members == nil {
		return nil, oops.Errorf("membership repository is required")
	}
	if categories == nil {
		return nil, oops.Errorf("category repository is required")
	}
	if grants == nil {
		return nil, oops.Errorf("grant repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &LifecycleService{
		spaces:     spaces,
		members:    members,
		categories: categories,
		grants:     grants,
		hasher:     hasher,
		logger:     logger,
	}, nil
}

// Create validates the inputs, hashes the password, and brings a new space
// into existence with an owning membership and the default categories.
// The returned projection never carries the password hash.
func (s *LifecycleService) Create(ctx context.Context, name, password string) (*Space, error) {
	name = strings.TrimSpace(name)
	if err := ValidateSpaceName(name); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("SPACE_CREATE_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	sp, err := NewSpace(name, hash)
	if err != nil {
		return nil, oops.Code("SPACE_CREATE_FAILED").
			With("operation", "build space").
			Wrap(err)
	}

	if err := s.spaces.Create(ctx, sp); err != nil {
		return nil, oops.Code("SPACE_CREATE_FAILED").
			With("operation", "insert space").
			With("name", name).
			Wrap(err)
	}

	member, err := NewMembership(sp.ID, sp.OwnerID, RoleOwner)
	if err != nil {
		s.compensateCreate(ctx, sp.ID)
		return nil, oops.Code("SPACE_CREATE_FAILED").
			With("operation", "build membership").
			Wrap(err)
	}
	if err := s.members.Create(ctx, member); err != nil {
		// A space without an owner membership must not survive.
		s.compensateCreate(ctx, sp.ID)
		return nil, oops.Code("SPACE_CREATE_FAILED").
			With("operation", "insert membership").
			With("space_id", sp.ID.String()).
			Wrap(err)
	}

	s.seedDefaultCategories(ctx, sp.ID)

	return sp.Redacted(), nil
}

// compensateCreate deletes a just-created space after a later creation
// step failed. A failed compensation leaves an orphan, which we can only
// report.
func (s *LifecycleService) compensateCreate(ctx context.Context, id ulid.ULID) {
	if err := s.spaces.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("failed to compensate space creation; orphaned space remains",
			"space_id", id.String(),
			"error", err)
	}
}

// seedDefaultCategories inserts the fixed default catalog. The batch insert
// is idempotent per (space, name, type), so retrying a partially applied
// batch converges.
func (s *LifecycleService) seedDefaultCategories(ctx context.Context, spaceID ulid.ULID) {
	cats := DefaultCategories(spaceID)

	backoff := retry.WithMaxRetries(seedMaxRetries, retry.NewExponential(seedInitialDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if seedErr := s.categories.CreateBatch(ctx, cats); seedErr != nil {
			return retry.RetryableError(seedErr)
		}
		return nil
	})
	if err != nil {
		// Non-fatal: an empty-category space is a valid terminal state.
		s.logger.Warn("default category seeding failed; space starts without categories",
			"space_id", spaceID.String(),
			"error", err)
	}
}

// Verify checks a password against a space's credential hash. On success it
// returns the redacted space plus a fresh access grant and its plaintext
// token. Grant persistence is best-effort; a verify does not fail because
// the grant could not be stored.
func (s *LifecycleService) Verify(ctx context.Context, spaceID ulid.ULID, password string) (*Space, *AccessGrant, string, error) {
	sp, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, "", oops.Code("SPACE_NOT_FOUND").
				With("space_id", spaceID.String()).
				Wrap(err)
		}
		return nil, nil, "", oops.Code("SPACE_VERIFY_FAILED").
			With("operation", "get space").
			With("space_id", spaceID.String()).
			Wrap(err)
	}

	valid, err := s.hasher.Verify(password, sp.PasswordHash)
	if err != nil {
		return nil, nil, "", oops.Code("SPACE_VERIFY_FAILED").
			With("operation", "verify password").
			With("space_id", spaceID.String()).
			Wrap(err)
	}
	if !valid {
		return nil, nil, "", oops.Code("SPACE_INVALID_CREDENTIALS").Errorf("incorrect password")
	}

	token, tokenHash, err := GenerateGrantToken()
	if err != nil {
		return nil, nil, "", oops.Code("SPACE_VERIFY_FAILED").
			With("operation", "generate grant token").
			Wrap(err)
	}

	grant, err := NewAccessGrant(sp.ID, tokenHash, time.Now().Add(GrantTokenExpiry))
	if err != nil {
		return nil, nil, "", oops.Code("SPACE_VERIFY_FAILED").
			With("operation", "build grant").
			Wrap(err)
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		// The password check already succeeded; return the space without a grant.
		s.logger.Warn("failed to persist access grant",
			"space_id", sp.ID.String(),
			"error", err)
		return sp.Redacted(), nil, "", nil
	}

	return sp.Redacted(), grant, token, nil
}

// ResetPassword hashes newPassword and unconditionally overwrites the
// space's credential hash. No proof of the old password is required;
// knowing the space id is enough. All outstanding grants are revoked.
func (s *LifecycleService) ResetPassword(ctx context.Context, spaceID ulid.ULID, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("SPACE_RESET_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.spaces.UpdatePassword(ctx, spaceID, hash); err != nil {
		return wrapNotFound(err, "SPACE_NOT_FOUND", "SPACE_RESET_FAILED", "space_id", spaceID.String())
	}

	// Cleanup: the password was already rotated, grant revocation failing
	// does not undo that.
	if _, err := s.grants.DeleteBySpace(ctx, spaceID); err != nil {
		s.logger.Warn("failed to revoke grants after password reset",
			"space_id", spaceID.String(),
			"error", err)
	}

	return nil
}

// Update renames a space and replaces its currency list. The first currency
// becomes the default. Returns the redacted updated record.
func (s *LifecycleService) Update(ctx context.Context, spaceID ulid.ULID, name string, currencies []string) (*Space, error) {
	name = strings.TrimSpace(name)
	if err := ValidateRename(name); err != nil {
		return nil, err
	}
	if err := ValidateCurrencies(currencies); err != nil {
		return nil, err
	}

	sp, err := s.spaces.Update(ctx, spaceID, name, currencies)
	if err != nil {
		return nil, wrapNotFound(err, "SPACE_NOT_FOUND", "SPACE_UPDATE_FAILED", "space_id", spaceID.String())
	}

	return sp.Redacted(), nil
}

// Delete removes a space. The storage layer cascades removal of
// memberships, categories, transactions, and grants.
func (s *LifecycleService) Delete(ctx context.Context, spaceID ulid.ULID) error {
	if err := s.spaces.Delete(ctx, spaceID); err != nil {
		return wrapNotFound(err, "SPACE_NOT_FOUND", "SPACE_DELETE_FAILED", "space_id", spaceID.String())
	}
	return nil
}

// ValidateGrant resolves a plaintext grant token to its space id.
// Returns ErrNotFound-coded errors for unknown or expired tokens.
func (s *LifecycleService) ValidateGrant(ctx context.Context, token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, oops.Code("GRANT_TOKEN_EMPTY").Errorf("grant token cannot be empty")
	}

	grant, err := s.grants.GetByTokenHash(ctx, HashGrantToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ulid.ULID{}, oops.Code("GRANT_INVALID").Errorf("invalid grant token")
		}
		return ulid.ULID{}, oops.Code("GRANT_VALIDATE_FAILED").
			With("operation", "get grant by token hash").
			Wrap(err)
	}

	if grant.IsExpired() {
		return ulid.ULID{}, oops.Code("GRANT_EXPIRED").Errorf("grant has expired")
	}

	return grant.SpaceID, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Space name validation constraints.
const (
	MinSpaceNameLength = 3
	MaxSpaceNameLength = 100
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// Space represents an isolated, password-protected tenant.
//
// PasswordHash is the only proof of ownership; there is no separate
// authentication principal. OwnerID is a freshly generated placeholder
// identity minted at creation time, not a real user account.
type Space struct {
	ID           ulid.ULID
	Name         string
	PasswordHash string
	OwnerID      ulid.ULID
	Currencies   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SpaceSummary is the non-secret projection used by the directory listing.
type SpaceSummary struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSpace creates a Space with a generated identity and owner.
// The caller must have validated name and hashed the password already.
func NewSpace(name, passwordHash string) (*Space, error) {
	if passwordHash == "" {
		return nil, oops.Code("SPACE_MISSING_HASH").Errorf("password hash cannot be empty")
	}
	now := time.Now().UTC()
	return &Space{
		ID:           ulid.Make(),
		Name:         name,
		PasswordHash: passwordHash,
		OwnerID:      ulid.Make(),
		Currencies:   []string{DefaultCurrency},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Currency returns the default currency (the first entry).
func (s *Space) Currency() string {
	if len(s.Currencies) == 0 {
		return DefaultCurrency
	}
	return s.Currencies[0]
}

// Redacted returns a copy of the space with the password hash stripped.
// Every projection handed back to callers goes through this.
func (s *Space) Redacted() *Space {
	c := *s
	c.PasswordHash = ""
	c.Currencies = append([]string(nil), s.Currencies...)
	return &c
}

// ValidateSpaceName validates a space name for creation.
// The name must be non-blank and MinSpaceNameLength to MaxSpaceNameLength
// characters after trimming.
func ValidateSpaceName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return oops.Code("SPACE_INVALID_NAME").Errorf("space name cannot be empty")
	}
	if len([]rune(trimmed)) < MinSpaceNameLength {
		return oops.Code("SPACE_INVALID_NAME").
			With("min", MinSpaceNameLength).
			Errorf("space name must be at least %d characters", MinSpaceNameLength)
	}
	if len([]rune(trimmed)) > MaxSpaceNameLength {
		return oops.Code("SPACE_INVALID_NAME").
			With("max", MaxSpaceNameLength).
			Errorf("space name must be at most %d characters", MaxSpaceNameLength)
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return oops.Code("SPACE_INVALID_NAME").Errorf("space name contains non-printable characters")
		}
	}
	return nil
}

// ValidateRename validates a space name for update. Unlike creation,
// a single character is enough.
func ValidateRename(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return oops.Code("SPACE_INVALID_NAME").Errorf("space name cannot be empty")
	}
	if len([]rune(trimmed)) > MaxSpaceNameLength {
		return oops.Code("SPACE_INVALID_NAME").
			With("max", MaxSpaceNameLength).
			Errorf("space name must be at most %d characters", MaxSpaceNameLength)
	}
	return nil
}

// ValidatePassword validates a plaintext password against policy.
func ValidatePassword(password string) error {
	if password == "" {
		return oops.Code("SPACE_INVALID_PASSWORD").Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLength {
		return oops.Code("SPACE_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateCurrencies ensures a space keeps at least one currency.
func ValidateCurrencies(currencies []string) error {
	if len(currencies) == 0 {
		return oops.Code("SPACE_INVALID_CURRENCIES").Errorf("at least one currency is required")
	}
	for _, code := range currencies {
		if strings.TrimSpace(code) == "" {
			return oops.Code("SPACE_INVALID_CURRENCIES").Errorf("currency code cannot be empty")
		}
	}
	return nil
}

// SpaceRepository manages space persistence.
//
// Single-row writes are assumed atomic; there is no multi-row transaction
// wrapping the create sequence, which is why LifecycleService compensates
// explicitly when a membership write fails.
type SpaceRepository interface {
	// Create stores a new space.
	Create(ctx context.Context, sp *Space) error

	// GetByID retrieves a space, including its password hash.
	GetByID(ctx context.Context, id ulid.ULID) (*Space, error)

	// Update persists a new name and currency list and returns the
	// updated record.
	Update(ctx context.Context, id ulid.ULID, name string, currencies []string) (*Space, error)

	// UpdatePassword overwrites only the password hash.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// Delete removes a space. The storage layer cascades removal of
	// memberships, categories, transactions, and grants.
	Delete(ctx context.Context, id ulid.ULID) error

	// List returns non-secret summaries ordered newest-created-first.
	List(ctx context.Context) ([]SpaceSummary, error)
}

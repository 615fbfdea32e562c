// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Grant token configuration.
const (
	GrantTokenBytes  = 32             // 32 bytes = 64 hex chars
	GrantTokenExpiry = 24 * time.Hour // 24 hour expiry
)

// AccessGrant is the capability issued by a successful password
// verification. Callers present the plaintext token on subsequent requests
// instead of re-sending the password; only the token's hash is stored.
type AccessGrant struct {
	ID        ulid.ULID
	SpaceID   ulid.ULID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewAccessGrant creates a validated AccessGrant.
func NewAccessGrant(spaceID ulid.ULID, tokenHash string, expiresAt time.Time) (*AccessGrant, error) {
	if spaceID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("GRANT_INVALID_SPACE").Errorf("space ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("GRANT_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("GRANT_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	return &AccessGrant{
		ID:        ulid.Make(),
		SpaceID:   spaceID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsExpired returns true if the grant has expired.
func (g *AccessGrant) IsExpired() bool {
	return time.Now().After(g.ExpiresAt)
}

// GenerateGrantToken creates a secure random token and its hash.
// Returns (plaintext_token, sha256_hash, error). The plaintext token goes
// to the client; the hash is what gets stored.
func GenerateGrantToken() (token, hash string, err error) {
	tokenBytes := make([]byte, GrantTokenBytes)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", "", oops.Code("GRANT_TOKEN_GENERATE_FAILED").
			With("requested_bytes", GrantTokenBytes).
			Wrap(err)
	}

	token = hex.EncodeToString(tokenBytes)
	hash = HashGrantToken(token)

	return token, hash, nil
}

// HashGrantToken computes the SHA256 hash of a grant token.
func HashGrantToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyGrantToken checks if the plaintext token matches the stored hash
// using constant-time comparison.
func VerifyGrantToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashGrantToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// GrantRepository manages access grant persistence.
type GrantRepository interface {
	// Create stores a new grant.
	Create(ctx context.Context, g *AccessGrant) error

	// GetByTokenHash retrieves a grant by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*AccessGrant, error)

	// DeleteBySpace removes all grants for a space.
	DeleteBySpace(ctx context.Context, spaceID ulid.ULID) (int64, error)

	// DeleteExpired removes all expired grants.
	DeleteExpired(ctx context.Context) (int64, error)
}

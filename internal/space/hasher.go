// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
// Length policy beyond non-emptiness is the validators' job, not the hasher's.
var ErrEmptyPassword = oops.Code("CRED_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher provides one-way credential hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted argon2id hash of the password. Two calls with
	// the same input produce different outputs.
	Hash(password string) (string, error)

	// Verify checks if the password matches the hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on invalid hash.
	Verify(password, hash string) (bool, error)
}

// Argon2idHasher implements PasswordHasher using argon2id.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id hash of the password in PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("CRED_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify checks if the password matches the encoded hash using a
// constant-time comparison.
func (h *Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	salt, expected, time, memory, threads, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	keyLen := len(expected)
	if keyLen <= 0 || keyLen > 1<<30 {
		return false, oops.Code("CRED_INVALID_HASH").Errorf("invalid hash key length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(keyLen))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// decodeHash parses a PHC-encoded argon2id hash into its components.
func decodeHash(encodedHash string) (salt, key []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Wrap(err)
	}

	var rawThreads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &rawThreads); err != nil {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Wrap(err)
	}
	// Threads must fit in uint8 to prevent silent truncation.
	if rawThreads > 255 {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Errorf("threads value %d exceeds uint8 max", rawThreads)
	}
	threads = uint8(rawThreads)

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Wrap(err)
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, oops.Code("CRED_INVALID_HASH").Wrap(err)
	}

	return salt, key, time, memory, threads, nil
}

// Compile-time interface check.
var _ PasswordHasher = (*Argon2idHasher)(nil)

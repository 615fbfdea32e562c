// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// wrapNotFound wraps a repository error, choosing notFoundCode when the
// underlying cause is ErrNotFound and failCode otherwise.
func wrapNotFound(err error, notFoundCode, failCode, key, val string) error {
	if errors.Is(err, ErrNotFound) {
		return oops.Code(notFoundCode).With(key, val).Wrap(err)
	}
	return oops.Code(failCode).With(key, val).Wrap(err)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

// Package space implements the tenant model of MoneySpace.
//
// # Domain Types
//
// A Space is an isolated, password-protected tenant holding its own
// categories and transactions. Domain types should be created through
// their constructors:
//   - NewSpace - creates a Space with a generated owner identity
//   - NewMembership - binds a principal to a space with a role
//   - NewAccessGrant - creates a verify-issued capability grant
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - LifecycleService - create, verify, reset, update, delete of spaces
//   - DirectoryService - non-secret space listing for the picker UI
//   - CategoryService - per-space category listing
//   - TransactionService - transaction CRUD within a space
//
// Services are created with New*Service constructors that validate
// dependencies.
package space

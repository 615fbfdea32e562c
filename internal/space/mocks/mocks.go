// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

// Package mocks provides testify mocks for the space package interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/moneyspace/moneyspace/internal/space"
)

// testingT is the subset of *testing.T the constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSpaceRepository mocks space.SpaceRepository.
type MockSpaceRepository struct {
	mock.Mock
}

// NewMockSpaceRepository creates a mock wired to t's cleanup and assertions.
func NewMockSpaceRepository(t testingT) *MockSpaceRepository {
	m := &MockSpaceRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSpaceRepository) Create(ctx context.Context, sp *space.Space) error {
	return m.Called(ctx, sp).Error(0)
}

func (m *MockSpaceRepository) GetByID(ctx context.Context, id ulid.ULID) (*space.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Space), args.Error(1)
}

func (m *MockSpaceRepository) Update(ctx context.Context, id ulid.ULID, name string, currencies []string) (*space.Space, error) {
	args := m.Called(ctx, id, name, currencies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Space), args.Error(1)
}

func (m *MockSpaceRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockSpaceRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSpaceRepository) List(ctx context.Context) ([]space.SpaceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]space.SpaceSummary), args.Error(1)
}

// MockMembershipRepository mocks space.MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

// NewMockMembershipRepository creates a mock wired to t's cleanup and assertions.
func NewMockMembershipRepository(t testingT) *MockMembershipRepository {
	m := &MockMembershipRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMembershipRepository) Create(ctx context.Context, mem *space.Membership) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *MockMembershipRepository) ListBySpace(ctx context.Context, spaceID ulid.ULID) ([]*space.Membership, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*space.Membership), args.Error(1)
}

// MockCategoryRepository mocks space.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

// NewMockCategoryRepository creates a mock wired to t's cleanup and assertions.
func NewMockCategoryRepository(t testingT) *MockCategoryRepository {
	m := &MockCategoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCategoryRepository) CreateBatch(ctx context.Context, cats []*space.Category) error {
	return m.Called(ctx, cats).Error(0)
}

func (m *MockCategoryRepository) ListBySpace(ctx context.Context, spaceID ulid.ULID, typeFilter space.TransactionType) ([]*space.Category, error) {
	args := m.Called(ctx, spaceID, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*space.Category), args.Error(1)
}

// MockGrantRepository mocks space.GrantRepository.
type MockGrantRepository struct {
	mock.Mock
}

// NewMockGrantRepository creates a mock wired to t's cleanup and assertions.
func NewMockGrantRepository(t testingT) *MockGrantRepository {
	m := &MockGrantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGrantRepository) Create(ctx context.Context, g *space.AccessGrant) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGrantRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*space.AccessGrant, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.AccessGrant), args.Error(1)
}

func (m *MockGrantRepository) DeleteBySpace(ctx context.Context, spaceID ulid.ULID) (int64, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGrantRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository mocks space.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

// NewMockTransactionRepository creates a mock wired to t's cleanup and assertions.
func NewMockTransactionRepository(t testingT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *space.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id ulid.ULID) (*space.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListBySpace(ctx context.Context, spaceID ulid.ULID) ([]*space.Transaction, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*space.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *space.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPasswordHasher mocks space.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock wired to t's cleanup and assertions.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

// Compile-time interface checks.
var (
	_ space.SpaceRepository       = (*MockSpaceRepository)(nil)
	_ space.MembershipRepository  = (*MockMembershipRepository)(nil)
	_ space.CategoryRepository    = (*MockCategoryRepository)(nil)
	_ space.GrantRepository       = (*MockGrantRepository)(nil)
	_ space.TransactionRepository = (*MockTransactionRepository)(nil)
	_ space.PasswordHasher        = (*MockPasswordHasher)(nil)
)

package mocks

import (
	"context"

	"github.com/segyhp/loanshrk/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSlotStore struct {
	mock.Mock
}

func (m *MockSlotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockSlotStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSlotStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSlotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) ([]*domain.Borrower, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Borrower), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, borrowers []*domain.Borrower) error {
	args := m.Called(ctx, borrowers)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Backup(ctx context.Context, suffix string) (string, error) {
	args := m.Called(ctx, suffix)
	return args.String(0), args.Error(1)
}

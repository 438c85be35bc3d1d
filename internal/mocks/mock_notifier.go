package mocks

import (
	"context"

	"github.com/segyhp/loanshrk/internal/notify"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, notice notify.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNotifier) Close() error {
	args := m.Called()
	return args.Error(0)
}

// NewMockNotifier creates a notifier mock that accepts every notice
func NewMockNotifier() *MockNotifier {
	m := &MockNotifier{}
	m.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

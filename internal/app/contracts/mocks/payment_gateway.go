package mocks

import (
	"context"
	"mediconnect-service/internal/app/contracts"

	"github.com/stretchr/testify/mock"
)

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Authorize(ctx context.Context, request *contracts.AuthorizeRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) Capture(ctx context.Context, holdID, idempotencyKey string) error {
	args := m.Called(ctx, holdID, idempotencyKey)
	return args.Error(0)
}

func (m *MockPaymentGateway) VoidHold(ctx context.Context, holdID, idempotencyKey string) error {
	args := m.Called(ctx, holdID, idempotencyKey)
	return args.Error(0)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, holdID string, amount int64, idempotencyKey string) (string, error) {
	args := m.Called(ctx, holdID, amount, idempotencyKey)
	return args.String(0), args.Error(1)
}

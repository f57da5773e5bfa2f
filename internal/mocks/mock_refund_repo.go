package mocks

import (
	"context"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockRefundRepo struct {
	mock.Mock
	domain.RefundRepository
}

func (m *MockRefundRepo) CreateRequest(ctx context.Context, bookingID int, reason string) (*domain.Refund, error) {
	args := m.Called(ctx, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundRepo) GetById(ctx context.Context, id int) (*domain.RefundSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundSummary), args.Error(1)
}

func (m *MockRefundRepo) GetByStatus(
	ctx context.Context,
	status domain.RefundStatus,
	pagination domain.Pagination) ([]domain.RefundSummary, *domain.Metadata, error) {

	args := m.Called(ctx, status, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.RefundSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockRefundRepo) Approve(ctx context.Context, refundID, employeeID int, amount decimal.Decimal) error {
	args := m.Called(ctx, refundID, employeeID, amount)
	return args.Error(0)
}

func (m *MockRefundRepo) Reject(ctx context.Context, refundID, employeeID int) error {
	args := m.Called(ctx, refundID, employeeID)
	return args.Error(0)
}

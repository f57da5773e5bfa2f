package mocks

import (
	"context"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) AttachCheckoutSession(ctx context.Context, paymentID int, checkoutSessionID string) error {
	args := m.Called(ctx, paymentID, checkoutSessionID)
	return args.Error(0)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetSummariesByCustomer(
	ctx context.Context,
	customerID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, customerID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockBookingRepo) GetAllSummaries(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockBookingRepo) Approve(ctx context.Context, bookingID int) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingRepo) Reject(ctx context.Context, bookingID int) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingRepo) ConfirmByCheckoutSession(ctx context.Context, checkoutSessionID string) (int, error) {
	args := m.Called(ctx, checkoutSessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepo) CancelByCheckoutSession(ctx context.Context, checkoutSessionID string) (int, error) {
	args := m.Called(ctx, checkoutSessionID)
	return args.Int(0), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockScreeningRepo struct {
	mock.Mock
	domain.ScreeningRepository
}

func (m *MockScreeningRepo) GetAll(
	ctx context.Context,
	movieID int,
	pagination domain.Pagination) ([]domain.ScreeningSummary, *domain.Metadata, error) {

	args := m.Called(ctx, movieID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ScreeningSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockScreeningRepo) GetById(ctx context.Context, id int) (*domain.ScreeningSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScreeningSummary), args.Error(1)
}

func (m *MockScreeningRepo) Create(ctx context.Context, screening *domain.Screening) error {
	args := m.Called(ctx, screening)
	return args.Error(0)
}

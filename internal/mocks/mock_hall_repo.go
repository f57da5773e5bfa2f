package mocks

import (
	"context"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type MockHallRepo struct {
	GetAllFunc  func(ctx context.Context) ([]domain.Hall, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Hall, error)
}

func (m *MockHallRepo) GetAll(ctx context.Context) ([]domain.Hall, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockHallRepo) GetById(ctx context.Context, id int) (*domain.Hall, error) {
	return m.GetByIdFunc(ctx, id)
}

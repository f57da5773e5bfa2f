package mocks

import (
	"context"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type MockMovieRepo struct {
	GetAllFunc  func(ctx context.Context, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Movie, error)
	CreateFunc  func(ctx context.Context, movie *domain.Movie) error
}

func (m *MockMovieRepo) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {

	return m.GetAllFunc(ctx, pagination)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

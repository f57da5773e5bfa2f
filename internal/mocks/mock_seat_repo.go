package mocks

import (
	"context"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type MockSeatRepo struct {
	GetSeatMapByScreeningFunc func(ctx context.Context, screeningID int) (*domain.ScreeningSeatMap, error)
	GetSeatsByHallAndIdsFunc  func(ctx context.Context, hallID int, seatIDs []int) ([]domain.Seat, error)
}

func (m *MockSeatRepo) GetSeatMapByScreening(ctx context.Context, screeningID int) (*domain.ScreeningSeatMap, error) {
	return m.GetSeatMapByScreeningFunc(ctx, screeningID)
}

func (m *MockSeatRepo) GetSeatsByHallAndIds(ctx context.Context, hallID int, seatIDs []int) ([]domain.Seat, error) {
	return m.GetSeatsByHallAndIdsFunc(ctx, hallID, seatIDs)
}

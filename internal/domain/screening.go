package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Screening struct {
	ID          int
	MovieID     int
	HallID      int
	StartTime   time.Time
	EndTime     time.Time
	TicketPrice decimal.Decimal
}

// ScreeningSummary is a screening joined with its movie and hall, carrying the
// derived available-seat count (hall seat inventory minus occupied seats).
type ScreeningSummary struct {
	Screening
	MovieTitle     string
	HallName       string
	HallCapacity   int
	AvailableSeats int
}

type ScreeningRepository interface {
	GetAll(ctx context.Context, movieID int, pagination Pagination) ([]ScreeningSummary, *Metadata, error)
	GetById(ctx context.Context, id int) (*ScreeningSummary, error)
	Create(ctx context.Context, screening *Screening) error
}

package domain

import "context"

type SeatType string

const (
	SeatTypeStandard SeatType = "Standard"
	SeatTypePremium  SeatType = "Premium"
	SeatTypeVIP      SeatType = "VIP"
)

type Seat struct {
	ID         int
	HallID     int
	RowLetter  string
	SeatNumber int
	Type       SeatType
	Booked     bool
}

// ScreeningSeatMap is the full seat inventory of a screening's hall with a
// booked flag per seat. Seats are ordered by row letter, then seat number.
type ScreeningSeatMap struct {
	ScreeningID int
	HallID      int
	HallName    string
	MovieTitle  string
	Seats       []Seat
}

type SeatRepository interface {
	GetSeatMapByScreening(ctx context.Context, screeningID int) (*ScreeningSeatMap, error)
	GetSeatsByHallAndIds(ctx context.Context, hallID int, seatIDs []int) ([]Seat, error)
}

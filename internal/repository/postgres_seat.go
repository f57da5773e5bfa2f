package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetSeatMapByScreening(
	ctx context.Context,
	screeningID int) (*domain.ScreeningSeatMap, error) {

	query := `
		SELECT h.id, h.name, m.title
		FROM screenings sc
		JOIN halls h ON sc.hall_id = h.id
		JOIN movies m ON sc.movie_id = m.id
		WHERE sc.id = $1
	`

	seatMap := domain.ScreeningSeatMap{ScreeningID: screeningID}

	err := p.db.QueryRow(ctx, query, screeningID).Scan(&seatMap.HallID, &seatMap.HallName, &seatMap.MovieTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	query = `
		SELECT s.id, s.hall_id, s.row_letter, s.seat_number, s.seat_type,
			bs.seat_id IS NOT NULL AS booked
		FROM seats s
		LEFT JOIN booking_seats bs ON bs.seat_id = s.id AND bs.screening_id = $1 AND bs.active
		WHERE s.hall_id = $2
		ORDER BY s.row_letter, s.seat_number
	`

	rows, err := p.db.Query(ctx, query, screeningID, seatMap.HallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(
			&seat.ID,
			&seat.HallID,
			&seat.RowLetter,
			&seat.SeatNumber,
			&seat.Type,
			&seat.Booked,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	seatMap.Seats = seats

	return &seatMap, nil
}

func (p *PostgresSeatRepository) GetSeatsByHallAndIds(
	ctx context.Context,
	hallID int,
	seatIDs []int) ([]domain.Seat, error) {

	query := `
		SELECT id, hall_id, row_letter, seat_number, seat_type
		FROM seats
		WHERE hall_id = $1 AND id = ANY($2)
		ORDER BY row_letter, seat_number
	`

	rows, err := p.db.Query(ctx, query, hallID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0, len(seatIDs))

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(&seat.ID, &seat.HallID, &seat.RowLetter, &seat.SeatNumber, &seat.Type)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

// Seat occupancy is structural: a booking_seats row is active only while its
// booking blocks the seat, so counting active rows per screening is the
// occupied count regardless of booking status.
const screeningColumns = `
	s.id,
	s.movie_id,
	s.hall_id,
	s.start_time,
	s.end_time,
	s.ticket_price,
	m.title,
	h.name,
	h.capacity,
	(SELECT COUNT(*) FROM seats WHERE hall_id = s.hall_id) -
	(SELECT COUNT(*) FROM booking_seats bs WHERE bs.screening_id = s.id AND bs.active) AS available_seats
`

func (p *PostgresScreeningRepository) GetAll(
	ctx context.Context,
	movieID int,
	pagination domain.Pagination) ([]domain.ScreeningSummary, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(),` + screeningColumns + `
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE ($1 = 0 OR s.movie_id = $1)
		ORDER BY s.start_time ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, movieID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	screenings := make([]domain.ScreeningSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var screening domain.ScreeningSummary

		err := rows.Scan(
			&totalRecords,
			&screening.ID,
			&screening.MovieID,
			&screening.HallID,
			&screening.StartTime,
			&screening.EndTime,
			&screening.TicketPrice,
			&screening.MovieTitle,
			&screening.HallName,
			&screening.HallCapacity,
			&screening.AvailableSeats,
		)
		if err != nil {
			return nil, nil, err
		}

		screenings = append(screenings, screening)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := pagination.Metadata(totalRecords)

	return screenings, metadata, nil
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, id int) (*domain.ScreeningSummary, error) {
	query := `
		SELECT` + screeningColumns + `
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE s.id = $1
	`

	var screening domain.ScreeningSummary

	err := p.db.QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.HallID,
		&screening.StartTime,
		&screening.EndTime,
		&screening.TicketPrice,
		&screening.MovieTitle,
		&screening.HallName,
		&screening.HallCapacity,
		&screening.AvailableSeats,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screening, nil
}

func (p *PostgresScreeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var conflict bool

		query := `
			SELECT EXISTS (
				SELECT 1
				FROM screenings
				WHERE hall_id = $1
				AND start_time < $3
				AND end_time > $2
			)
		`

		err := tx.QueryRow(ctx, query, screening.HallID, screening.StartTime, screening.EndTime).Scan(&conflict)
		if err != nil {
			return err
		}

		if conflict {
			return domain.ErrScheduleConflict
		}

		query = `
			INSERT INTO screenings (movie_id, hall_id, start_time, end_time, ticket_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		return tx.QueryRow(
			ctx,
			query,
			screening.MovieID,
			screening.HallID,
			screening.StartTime,
			screening.EndTime,
			screening.TicketPrice,
		).Scan(&screening.ID)
	})
}

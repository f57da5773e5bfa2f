package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create writes the booking, its seat links and its payment as one
// transaction. Occupied seats are re-checked under FOR UPDATE at write time;
// the partial unique index on (screening_id, seat_id) WHERE active backs the
// check for writers that raced past it.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		seatIDs := make([]int, len(booking.Seats))
		for i, seat := range booking.Seats {
			seatIDs[i] = seat.SeatID
		}

		query := `
			SELECT seat_id
			FROM booking_seats
			WHERE screening_id = $1 AND seat_id = ANY($2) AND active
			FOR UPDATE
		`

		rows, err := tx.Query(ctx, query, booking.ScreeningID, seatIDs)
		if err != nil {
			return err
		}

		taken, err := pgx.CollectRows(rows, pgx.RowTo[int])
		if err != nil {
			return err
		}

		if len(taken) > 0 {
			return domain.ErrSeatAlreadyBooked
		}

		query = `
			INSERT INTO bookings (customer_id, screening_id, total_amount, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, booking_date
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.CustomerID,
			booking.ScreeningID,
			booking.TotalAmount,
			booking.Status,
		).Scan(&booking.ID, &booking.BookingDate)

		if err != nil {
			return err
		}

		seatRows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			seatRows = append(seatRows, []any{
				booking.ID,
				booking.ScreeningID,
				seat.SeatID,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "screening_id", "seat_id"},
			pgx.CopyFromRows(seatRows),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return domain.ErrSeatAlreadyBooked
			}

			return err
		}

		payment := booking.Payment

		query = `
			INSERT INTO payments (booking_id, amount, method, status, checkout_session_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`

		return tx.QueryRow(
			ctx,
			query,
			booking.ID,
			payment.Amount,
			payment.Method,
			payment.Status,
			payment.CheckoutSessionID,
		).Scan(&payment.ID, &payment.CreatedAt)
	})
}

func (p *PostgresBookingRepository) AttachCheckoutSession(ctx context.Context, paymentID int, checkoutSessionID string) error {
	query := `
		UPDATE payments
		SET checkout_session_id = $1
		WHERE id = $2 AND status = 'pending'
		RETURNING id
	`

	var id int

	err := p.db.QueryRow(ctx, query, checkoutSessionID, paymentID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	return nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT
			b.id,
			b.customer_id,
			b.screening_id,
			b.total_amount,
			b.status,
			b.booking_date,
			p.id,
			p.amount,
			p.method,
			p.status,
			p.checkout_session_id,
			p.payment_date,
			p.created_at
		FROM bookings b
		JOIN payments p ON p.booking_id = b.id AND p.status != 'refunded'
		WHERE b.id = $1
	`

	var booking domain.Booking
	var payment domain.Payment

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.ScreeningID,
		&booking.TotalAmount,
		&booking.Status,
		&booking.BookingDate,
		&payment.ID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.CheckoutSessionID,
		&payment.PaymentDate,
		&payment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	payment.BookingID = booking.ID
	booking.Payment = &payment

	seats, err := p.retrieveBookingSeats(ctx, id)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

func (p *PostgresBookingRepository) retrieveBookingSeats(ctx context.Context, bookingID int) ([]domain.BookingSeat, error) {
	query := `
		SELECT s.id, s.row_letter, s.seat_number, s.seat_type
		FROM booking_seats bs
		JOIN seats s ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY s.row_letter, s.seat_number
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.BookingSeat, 0)

	for rows.Next() {
		var seat domain.BookingSeat

		err := rows.Scan(&seat.SeatID, &seat.RowLetter, &seat.SeatNumber, &seat.Type)
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

const bookingSummaryQuery = `
	SELECT
		COUNT(*) OVER(),
		b.id,
		b.booking_date,
		b.total_amount,
		b.status,
		u.first_name || ' ' || u.last_name,
		u.email,
		m.title,
		h.name,
		sc.start_time,
		STRING_AGG(s.row_letter || s.seat_number, ', ' ORDER BY s.row_letter, s.seat_number)
	FROM bookings b
	JOIN users u ON b.customer_id = u.id
	JOIN screenings sc ON b.screening_id = sc.id
	JOIN movies m ON sc.movie_id = m.id
	JOIN halls h ON sc.hall_id = h.id
	JOIN booking_seats bs ON bs.booking_id = b.id
	JOIN seats s ON bs.seat_id = s.id
	%s
	GROUP BY b.id, b.booking_date, b.total_amount, b.status, u.first_name, u.last_name, u.email, m.title, h.name, sc.start_time
	ORDER BY b.booking_date DESC
`

func withFilter(query, filter string) string {
	return fmt.Sprintf(query, filter)
}

func (p *PostgresBookingRepository) GetSummariesByCustomer(
	ctx context.Context,
	customerID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := withFilter(bookingSummaryQuery, "WHERE b.customer_id = $3") + " LIMIT $1 OFFSET $2"

	return p.querySummaries(ctx, query, pagination, pagination.Limit(), pagination.Offset(), customerID)
}

func (p *PostgresBookingRepository) GetAllSummaries(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := withFilter(bookingSummaryQuery, "") + " LIMIT $1 OFFSET $2"

	return p.querySummaries(ctx, query, pagination, pagination.Limit(), pagination.Offset())
}

func (p *PostgresBookingRepository) querySummaries(
	ctx context.Context,
	query string,
	pagination domain.Pagination,
	args ...any) ([]domain.BookingSummary, *domain.Metadata, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.ID,
			&summary.BookingDate,
			&summary.TotalAmount,
			&summary.Status,
			&summary.CustomerName,
			&summary.CustomerEmail,
			&summary.MovieTitle,
			&summary.HallName,
			&summary.StartTime,
			&summary.Seats,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := pagination.Metadata(totalRecords)

	return summaries, metadata, nil
}

// Approve flips an awaiting booking to confirmed and completes its payment as
// one atomic update across both rows.
func (p *PostgresBookingRepository) Approve(ctx context.Context, bookingID int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := p.transition(ctx, tx, bookingID, domain.BookingStatusConfirmed,
			domain.BookingStatusPending, domain.BookingStatusPendingApproval)
		if err != nil {
			return err
		}

		query := `
			UPDATE payments
			SET status = 'completed', payment_date = NOW()
			WHERE booking_id = $1 AND status = 'pending'
		`

		_, err = tx.Exec(ctx, query, bookingID)

		return err
	})
}

// Reject cancels an awaiting booking, voids its payment and frees its seats.
func (p *PostgresBookingRepository) Reject(ctx context.Context, bookingID int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := p.transition(ctx, tx, bookingID, domain.BookingStatusCancelled,
			domain.BookingStatusPending, domain.BookingStatusPendingApproval)
		if err != nil {
			return err
		}

		query := `
			UPDATE payments
			SET status = 'canceled'
			WHERE booking_id = $1 AND status = 'pending'
		`

		_, err = tx.Exec(ctx, query, bookingID)
		if err != nil {
			return err
		}

		return releaseBookingSeats(ctx, tx, bookingID)
	})
}

// transition performs a guarded status update. A missing row means either the
// booking does not exist or it is not in an allowed source status; the two are
// told apart so callers can return 404 vs 409.
func (p *PostgresBookingRepository) transition(
	ctx context.Context,
	tx pgx.Tx,
	bookingID int,
	to domain.BookingStatus,
	from ...domain.BookingStatus) error {

	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2 AND status = ANY($3)
		RETURNING id
	`

	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	var id int

	err := tx.QueryRow(ctx, query, to, bookingID, fromStatuses).Scan(&id)
	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool

	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrRecordNotFound
	}

	return domain.ErrInvalidTransition
}

// releaseBookingSeats puts a booking's seats back on the market. The rows stay
// so booking history keeps its seat labels.
func releaseBookingSeats(ctx context.Context, tx pgx.Tx, bookingID int) error {
	_, err := tx.Exec(ctx, `UPDATE booking_seats SET active = FALSE WHERE booking_id = $1 AND active`, bookingID)
	return err
}

// ConfirmByCheckoutSession is the webhook path of Approve, keyed by the
// payment's checkout session id.
func (p *PostgresBookingRepository) ConfirmByCheckoutSession(ctx context.Context, checkoutSessionID string) (int, error) {
	var bookingID int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payments
			SET status = 'completed', payment_date = NOW()
			WHERE checkout_session_id = $1 AND status = 'pending'
			RETURNING booking_id
		`

		err := tx.QueryRow(ctx, query, checkoutSessionID).Scan(&bookingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		return p.transition(ctx, tx, bookingID, domain.BookingStatusConfirmed,
			domain.BookingStatusPending, domain.BookingStatusPendingApproval)
	})

	return bookingID, err
}

func (p *PostgresBookingRepository) CancelByCheckoutSession(ctx context.Context, checkoutSessionID string) (int, error) {
	var bookingID int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payments
			SET status = 'canceled'
			WHERE checkout_session_id = $1 AND status = 'pending'
			RETURNING booking_id
		`

		err := tx.QueryRow(ctx, query, checkoutSessionID).Scan(&bookingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		err = p.transition(ctx, tx, bookingID, domain.BookingStatusCancelled,
			domain.BookingStatusPending, domain.BookingStatusPendingApproval)
		if err != nil {
			return err
		}

		return releaseBookingSeats(ctx, tx, bookingID)
	})

	return bookingID, err
}

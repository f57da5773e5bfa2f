package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresRefundRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRefundRepository(db *pgxpool.Pool) *PostgresRefundRepository {
	return &PostgresRefundRepository{
		db: db,
	}
}

// CreateRequest moves a confirmed booking to pending_refund and opens a
// pending refund row against its active payment. Only confirmed bookings may
// enter pending_refund; their seats stay occupied while the request is
// adjudicated.
func (p *PostgresRefundRepository) CreateRequest(
	ctx context.Context,
	bookingID int,
	reason string) (*domain.Refund, error) {

	refund := domain.Refund{
		Reason: reason,
		Status: domain.RefundStatusPending,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = 'pending_refund'
			WHERE id = $1 AND status = 'confirmed'
			RETURNING id
		`

		var id int

		err := tx.QueryRow(ctx, query, bookingID).Scan(&id)
		if err != nil {
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

		query = `
			SELECT id
			FROM payments
			WHERE booking_id = $1 AND status = 'completed'
		`

		err = tx.QueryRow(ctx, query, bookingID).Scan(&refund.PaymentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNoActivePayment
			}

			return err
		}

		// Amount stays zero until staff approve with the final figure.
		query = `
			INSERT INTO refunds (payment_id, refund_amount, refund_reason, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, refund_date
		`

		return tx.QueryRow(
			ctx,
			query,
			refund.PaymentID,
			refund.Amount,
			refund.Reason,
			refund.Status,
		).Scan(&refund.ID, &refund.RefundDate)
	})

	if err != nil {
		return nil, err
	}

	return &refund, nil
}

const refundSummaryColumns = `
	r.id,
	r.payment_id,
	r.refund_amount,
	r.refund_reason,
	r.status,
	r.processed_by,
	r.refund_date,
	b.id,
	b.total_amount,
	u.first_name || ' ' || u.last_name,
	u.email,
	m.title
`

const refundSummaryJoins = `
	FROM refunds r
	JOIN payments p ON r.payment_id = p.id
	JOIN bookings b ON p.booking_id = b.id
	JOIN users u ON b.customer_id = u.id
	JOIN screenings sc ON b.screening_id = sc.id
	JOIN movies m ON sc.movie_id = m.id
`

func (p *PostgresRefundRepository) GetById(ctx context.Context, id int) (*domain.RefundSummary, error) {
	query := `SELECT ` + refundSummaryColumns + refundSummaryJoins + `WHERE r.id = $1`

	var refund domain.RefundSummary

	err := p.db.QueryRow(ctx, query, id).Scan(
		&refund.ID,
		&refund.PaymentID,
		&refund.Amount,
		&refund.Reason,
		&refund.Status,
		&refund.ProcessedBy,
		&refund.RefundDate,
		&refund.BookingID,
		&refund.BookingAmount,
		&refund.CustomerName,
		&refund.CustomerEmail,
		&refund.MovieTitle,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &refund, nil
}

func (p *PostgresRefundRepository) GetByStatus(
	ctx context.Context,
	status domain.RefundStatus,
	pagination domain.Pagination) ([]domain.RefundSummary, *domain.Metadata, error) {

	query := `SELECT COUNT(*) OVER(), ` + refundSummaryColumns + refundSummaryJoins + `
		WHERE r.status = $1
		ORDER BY r.refund_date ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, status, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	refunds := make([]domain.RefundSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var refund domain.RefundSummary

		err := rows.Scan(
			&totalRecords,
			&refund.ID,
			&refund.PaymentID,
			&refund.Amount,
			&refund.Reason,
			&refund.Status,
			&refund.ProcessedBy,
			&refund.RefundDate,
			&refund.BookingID,
			&refund.BookingAmount,
			&refund.CustomerName,
			&refund.CustomerEmail,
			&refund.MovieTitle,
		)
		if err != nil {
			return nil, nil, err
		}

		refunds = append(refunds, refund)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := pagination.Metadata(totalRecords)

	return refunds, metadata, nil
}

// Approve finalizes a pending refund: the refund is marked approved with the
// acting employee and amount, the payment becomes refunded, the booking
// becomes refunded and its seats go back on the market. One transaction.
func (p *PostgresRefundRepository) Approve(
	ctx context.Context,
	refundID, employeeID int,
	amount decimal.Decimal) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		refund, err := p.lockPendingRefund(ctx, tx, refundID)
		if err != nil {
			return err
		}

		if amount.GreaterThan(refund.paidAmount) {
			return domain.ErrRefundExceedsPaid
		}

		query := `
			UPDATE refunds
			SET status = 'approved', processed_by = $1, refund_amount = $2
			WHERE id = $3
		`

		_, err = tx.Exec(ctx, query, employeeID, amount, refundID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE payments SET status = 'refunded' WHERE id = $1`, refund.paymentID)
		if err != nil {
			return err
		}

		query = `
			UPDATE bookings
			SET status = 'refunded'
			WHERE id = $1 AND status = 'pending_refund'
		`

		_, err = tx.Exec(ctx, query, refund.bookingID)
		if err != nil {
			return err
		}

		return releaseBookingSeats(ctx, tx, refund.bookingID)
	})
}

// Reject declines a pending refund and puts the booking back to confirmed.
// No amount is recorded.
func (p *PostgresRefundRepository) Reject(ctx context.Context, refundID, employeeID int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		refund, err := p.lockPendingRefund(ctx, tx, refundID)
		if err != nil {
			return err
		}

		query := `
			UPDATE refunds
			SET status = 'rejected', processed_by = $1
			WHERE id = $2
		`

		_, err = tx.Exec(ctx, query, employeeID, refundID)
		if err != nil {
			return err
		}

		query = `
			UPDATE bookings
			SET status = 'confirmed'
			WHERE id = $1 AND status = 'pending_refund'
		`

		_, err = tx.Exec(ctx, query, refund.bookingID)

		return err
	})
}

type lockedRefund struct {
	paymentID  int
	bookingID  int
	paidAmount decimal.Decimal
	status     domain.RefundStatus
}

func (p *PostgresRefundRepository) lockPendingRefund(ctx context.Context, tx pgx.Tx, refundID int) (*lockedRefund, error) {
	query := `
		SELECT r.payment_id, r.status, p.booking_id, p.amount
		FROM refunds r
		JOIN payments p ON r.payment_id = p.id
		WHERE r.id = $1
		FOR UPDATE OF r, p
	`

	var refund lockedRefund

	err := tx.QueryRow(ctx, query, refundID).Scan(
		&refund.paymentID,
		&refund.status,
		&refund.bookingID,
		&refund.paidAmount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	if refund.status != domain.RefundStatusPending {
		return nil, domain.ErrRefundNotPending
	}

	return &refund, nil
}

package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusPendingApproval BookingStatus = "pending_approval"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusPendingRefund   BookingStatus = "pending_refund"
	BookingStatusRefunded        BookingStatus = "refunded"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

// OccupiesSeats reports whether a booking in this status blocks its seats from
// further sale. Every status except cancelled and refunded blocks, so a seat
// stays off the market while a payment or refund is being adjudicated.
func (s BookingStatus) OccupiesSeats() bool {
	return s != BookingStatusCancelled && s != BookingStatusRefunded
}

type Booking struct {
	ID          int
	CustomerID  int
	ScreeningID int
	TotalAmount decimal.Decimal
	Status      BookingStatus
	BookingDate time.Time
	Seats       []BookingSeat
	Payment     *Payment
}

type BookingSeat struct {
	SeatID     int
	RowLetter  string
	SeatNumber int
	Type       SeatType
}

// BookingSummary is a booking joined with its screening, movie, hall and an
// aggregated seat label list, as shown in booking overviews.
type BookingSummary struct {
	ID            int
	BookingDate   time.Time
	TotalAmount   decimal.Decimal
	Status        BookingStatus
	CustomerName  string
	CustomerEmail string
	MovieTitle    string
	HallName      string
	StartTime     time.Time
	Seats         string
}

type BookingRepository interface {
	// Create inserts the booking, its seat links and its initial payment in a
	// single transaction. It fails with ErrSeatAlreadyBooked if any requested
	// seat is occupied for the screening at write time.
	Create(ctx context.Context, booking *Booking) error
	// AttachCheckoutSession links a provider checkout session to the booking's
	// pending payment, once the booking id is known.
	AttachCheckoutSession(ctx context.Context, paymentID int, checkoutSessionID string) error
	GetById(ctx context.Context, id int) (*Booking, error)
	GetSummariesByCustomer(ctx context.Context, customerID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	GetAllSummaries(ctx context.Context, pagination Pagination) ([]BookingSummary, *Metadata, error)
	// Approve moves a pending/pending_approval booking to confirmed and its
	// payment to completed in one transaction.
	Approve(ctx context.Context, bookingID int) error
	// Reject cancels a pending/pending_approval booking, voids its payment and
	// releases its seats in one transaction.
	Reject(ctx context.Context, bookingID int) error
	ConfirmByCheckoutSession(ctx context.Context, checkoutSessionID string) (int, error)
	CancelByCheckoutSession(ctx context.Context, checkoutSessionID string) (int, error)
}

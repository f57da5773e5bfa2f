package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRejected RefundStatus = "rejected"
)

type Refund struct {
	ID          int
	PaymentID   int
	Amount      decimal.Decimal
	Reason      string
	Status      RefundStatus
	ProcessedBy *int
	RefundDate  time.Time
}

// RefundSummary is a refund request joined with its booking and customer, as
// shown in the staff adjudication queue.
type RefundSummary struct {
	Refund
	BookingID     int
	BookingAmount decimal.Decimal
	CustomerName  string
	CustomerEmail string
	MovieTitle    string
}

type RefundRepository interface {
	// CreateRequest moves a confirmed booking to pending_refund and inserts a
	// pending refund row against its active payment, in one transaction.
	CreateRequest(ctx context.Context, bookingID int, reason string) (*Refund, error)
	GetById(ctx context.Context, id int) (*RefundSummary, error)
	GetByStatus(ctx context.Context, status RefundStatus, pagination Pagination) ([]RefundSummary, *Metadata, error)
	// Approve finalizes a pending refund: refund approved, payment refunded,
	// booking refunded, seats released. Fails with ErrRefundExceedsPaid if
	// amount is greater than the original payment.
	Approve(ctx context.Context, refundID, employeeID int, amount decimal.Decimal) error
	// Reject declines a pending refund and returns the booking to confirmed.
	Reject(ctx context.Context, refundID, employeeID int) error
}

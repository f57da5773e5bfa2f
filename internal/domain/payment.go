package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCanceled  PaymentStatus = "canceled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type Payment struct {
	ID                int
	BookingID         int
	Amount            decimal.Decimal
	Method            PaymentMethod
	Status            PaymentStatus
	CheckoutSessionID *string
	PaymentDate       *time.Time
	CreatedAt         time.Time
}

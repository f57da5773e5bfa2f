package domain

import "github.com/stripe/stripe-go/v82"

type PaymentProvider interface {
	CreateCheckoutSession(user *User, booking *Booking, screening *ScreeningSummary) (*stripe.CheckoutSession, error)
}

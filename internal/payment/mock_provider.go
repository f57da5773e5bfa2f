package payment

import (
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	CreateCheckoutSessionFunc func(user *domain.User, booking *domain.Booking, screening *domain.ScreeningSummary) (*stripe.CheckoutSession, error)
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	user *domain.User,
	booking *domain.Booking,
	screening *domain.ScreeningSummary) (*stripe.CheckoutSession, error) {

	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(user, booking, screening)
	}

	return &stripe.CheckoutSession{ID: "cs_test_mock", URL: "https://checkout.example.com/cs_test_mock"}, nil
}

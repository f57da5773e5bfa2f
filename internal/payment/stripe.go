package payment

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	failureUrl string
	successUrl string
}

func NewStripePaymentProvider(failureUrl, successUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	user *domain.User,
	booking *domain.Booking,
	screening *domain.ScreeningSummary) (*stripe.CheckoutSession, error) {

	var lineItems []*stripe.CheckoutSessionLineItemParams

	priceCents := screening.TicketPrice.Mul(decimal.NewFromInt(100)).IntPart()

	for _, seat := range booking.Seats {
		seatLabel := fmt.Sprintf("Row %s Seat %d", seat.RowLetter, seat.SeatNumber)

		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(priceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("🎬 %s - %s", screening.MovieTitle, seatLabel)),
					Description: stripe.String(fmt.Sprintf(
						"Hall: %s • Showtime: %s • Seat Type: %s",
						screening.HallName,
						screening.StartTime.Format("Jan 2, 2006 15:04"),
						seat.Type,
					)),
				},
			},
			Quantity: stripe.Int64(1),
		}

		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"booking_id":   strconv.Itoa(booking.ID),
			"screening_id": strconv.Itoa(booking.ScreeningID),
			"user_id":      strconv.Itoa(user.ID),
		},
		CustomerEmail:     &user.Email,
		ClientReferenceID: stripe.String(strconv.Itoa(user.ID)),
	}

	// Retried requests must not open a second checkout for the same booking.
	params.IdempotencyKey = stripe.String(uuid.NewString())

	return session.New(params)
}

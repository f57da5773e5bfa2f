package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = int64(65536)

// StripeWebhookHandler settles card bookings from Stripe checkout events. A
// completed session confirms the booking, an expired one cancels it and frees
// its seats. Events for unknown sessions are acknowledged so Stripe stops
// retrying them.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err.Error())
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionExpired:
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	var checkoutSession stripe.CheckoutSession

	err = json.Unmarshal(event.Data.Raw, &checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var bookingID int

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		bookingID, err = app.bookingRepo.ConfirmByCheckoutSession(r.Context(), checkoutSession.ID)
	case stripe.EventTypeCheckoutSessionExpired:
		bookingID, err = app.bookingRepo.CancelByCheckoutSession(r.Context(), checkoutSession.ID)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("webhook event for unknown checkout session", "checkout_session_id", checkoutSession.ID)
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, domain.ErrInvalidTransition):
			logger.Warn("webhook event for already settled booking", "checkout_session_id", checkoutSession.ID)
			w.WriteHeader(http.StatusOK)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if event.Type == stripe.EventTypeCheckoutSessionCompleted {
		logger.Info("booking confirmed by checkout session", "booking_id", bookingID)
		app.notifyBookingConfirmed(r, bookingID)
	} else {
		logger.Info("booking cancelled by expired checkout session", "booking_id", bookingID)
	}

	w.WriteHeader(http.StatusOK)
}

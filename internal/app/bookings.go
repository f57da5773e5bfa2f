package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	var req api.CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			app.failedValidationResponse(w, r, errs)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	userID := contextGetUserId(app.sessionManager, r)

	user, err := app.userRepo.GetById(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), req.ScreeningId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "screening does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	seats, err := app.seatRepo.GetSeatsByHallAndIds(r.Context(), screening.HallID, req.SeatIdList)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) != len(req.SeatIdList) {
		logger.Warn("booking failed: one or more requested seat IDs do not exist for the screening",
			"requested_seats", req.SeatIdList)
		app.errorResponse(w, r, http.StatusUnprocessableEntity, "one or more seats do not exist in this hall")
		return
	}

	err = app.checkSeatHoldOwnership(r, screening.ID, req.SeatIdList)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyHeld):
			logger.Warn("booking conflict: user selected a seat held by another session")
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are held by another customer"))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)

	status := domain.BookingStatusPending
	if method == domain.PaymentMethodCash {
		// Cash is settled at the counter, so the booking waits for staff approval.
		status = domain.BookingStatusPendingApproval
	}

	totalAmount := screening.TicketPrice.Mul(decimal.NewFromInt(int64(len(seats))))

	bookingSeats := make([]domain.BookingSeat, 0, len(seats))
	for _, seat := range seats {
		bookingSeats = append(bookingSeats, domain.BookingSeat{
			SeatID:     seat.ID,
			RowLetter:  seat.RowLetter,
			SeatNumber: seat.SeatNumber,
			Type:       seat.Type,
		})
	}

	booking := &domain.Booking{
		CustomerID:  userID,
		ScreeningID: screening.ID,
		TotalAmount: totalAmount,
		Status:      status,
		Seats:       bookingSeats,
		Payment: &domain.Payment{
			Amount: totalAmount,
			Method: method,
			Status: domain.PaymentStatusPending,
		},
	}

	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyBooked):
			logger.Warn("booking conflict: user selected an already booked seat")
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already booked"))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := toBookingResponse(booking)

	if method == domain.PaymentMethodCard {
		checkoutSession, err := app.paymentProvider.CreateCheckoutSession(user, booking, screening)
		if err != nil {
			logger.Error("failed to create checkout session, cancelling booking", "booking_id", booking.ID, "error", err)

			if rejectErr := app.bookingRepo.Reject(r.Context(), booking.ID); rejectErr != nil {
				logger.Error("failed to cancel booking after checkout failure", "booking_id", booking.ID, "error", rejectErr)
			}

			app.serverErrorResponse(w, r, err)
			return
		}

		err = app.bookingRepo.AttachCheckoutSession(r.Context(), booking.Payment.ID, checkoutSession.ID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		resp.CheckoutUrl = ptr(checkoutSession.URL)
	}

	app.releaseOwnSeatHold(r, screening.ID)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// checkSeatHoldOwnership rejects seats locked in Redis by a session other than
// the caller's. Expired locks read as missing and pass.
func (app *Application) checkSeatHoldOwnership(r *http.Request, screeningID int, seatIDs []int) error {
	sessionID := app.sessionManager.Token(r.Context())

	for _, seatID := range seatIDs {
		ownerSessionID, err := app.redis.Get(r.Context(), seatLockKey(screeningID, seatID)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return err
		}

		if ownerSessionID != sessionID {
			return domain.ErrSeatAlreadyHeld
		}
	}

	return nil
}

// releaseOwnSeatHold frees the caller's hold after its seats were written to
// the database. Failures only shorten the hold's usefulness, the TTL cleans up.
func (app *Application) releaseOwnSeatHold(r *http.Request, screeningID int) {
	logger := contextGetLogger(r.Context(), app.logger)
	sessionID := app.sessionManager.Token(r.Context())

	hold, err := app.getSeatHold(r.Context(), sessionID)
	if err != nil {
		logger.Error("failed to read seat hold after booking", "error", err)
		return
	}

	if hold == nil || hold.ScreeningID != screeningID {
		return
	}

	err = app.releaseSeatHold(r.Context(), sessionID, hold)
	if err != nil {
		logger.Error("failed to release seat hold after booking", "error", err)
	}
}

func (app *Application) GetBookingsOfUser(w http.ResponseWriter, r *http.Request) {
	userID := contextGetUserId(app.sessionManager, r)
	pagination := readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByCustomer(r.Context(), userID, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingListResponse(summaries, metadata, false), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	pagination := readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetAllSummaries(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingListResponse(summaries, metadata, true), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Approve(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidTransition):
			app.errorResponse(w, r, http.StatusConflict, "booking is not awaiting approval")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.notifyBookingConfirmed(r, bookingID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) RejectBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Reject(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidTransition):
			app.errorResponse(w, r, http.StatusConflict, "booking is not awaiting approval")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// notifyBookingConfirmed emails the customer their confirmed booking details.
func (app *Application) notifyBookingConfirmed(r *http.Request, bookingID int) {
	logger := contextGetLogger(r.Context(), app.logger)

	booking, err := app.bookingRepo.GetById(r.Context(), bookingID)
	if err != nil {
		logger.Error("failed to load booking for confirmation email", "booking_id", bookingID, "error", err)
		return
	}

	user, err := app.userRepo.GetById(r.Context(), booking.CustomerID)
	if err != nil {
		logger.Error("failed to load customer for confirmation email", "booking_id", bookingID, "error", err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), booking.ScreeningID)
	if err != nil {
		logger.Error("failed to load screening for confirmation email", "booking_id", bookingID, "error", err)
		return
	}

	seatLabels := make([]string, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seatLabels = append(seatLabels, fmt.Sprintf("%s%d", seat.RowLetter, seat.SeatNumber))
	}

	app.sendEmail(r, user.Email, "booking_confirmed.tmpl", map[string]any{
		"firstName":   user.FirstName,
		"bookingID":   booking.ID,
		"movieTitle":  screening.MovieTitle,
		"hallName":    screening.HallName,
		"startTime":   screening.StartTime.Format("Mon, 02 Jan 2006 15:04"),
		"seats":       strings.Join(seatLabels, ", "),
		"totalAmount": booking.TotalAmount.StringFixed(2),
	})
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]api.BookingSeat, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seats = append(seats, api.BookingSeat{
			Id:     seat.SeatID,
			Row:    seat.RowLetter,
			Number: seat.SeatNumber,
			Type:   string(seat.Type),
		})
	}

	return api.BookingResponse{
		Id:          booking.ID,
		ScreeningId: booking.ScreeningID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		BookingDate: booking.BookingDate,
		Seats:       seats,
		Payment: api.PaymentInfo{
			Id:     booking.Payment.ID,
			Amount: booking.Payment.Amount,
			Method: string(booking.Payment.Method),
			Status: string(booking.Payment.Status),
		},
	}
}

func toBookingListResponse(
	summaries []domain.BookingSummary,
	metadata *domain.Metadata,
	includeCustomer bool) api.BookingListResponse {

	resp := api.BookingListResponse{
		Bookings: make([]api.BookingSummary, 0, len(summaries)),
		Metadata: toApiMetadata(*metadata),
	}

	for _, summary := range summaries {
		apiSummary := api.BookingSummary{
			Id:          summary.ID,
			BookingDate: summary.BookingDate,
			TotalAmount: summary.TotalAmount,
			Status:      string(summary.Status),
			MovieTitle:  summary.MovieTitle,
			HallName:    summary.HallName,
			StartTime:   summary.StartTime,
			Seats:       summary.Seats,
		}

		if includeCustomer {
			apiSummary.CustomerName = summary.CustomerName
			apiSummary.CustomerEmail = summary.CustomerEmail
		}

		resp.Bookings = append(resp.Bookings, apiSummary)
	}

	return resp
}

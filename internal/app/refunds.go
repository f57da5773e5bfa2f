package app

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
)

func (app *Application) RequestRefund(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.RefundRequestRequest

	err = app.readJSON(w, r, &req)
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

	booking, err := app.bookingRepo.GetById(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Customers only see their own bookings; a foreign ID reads as missing.
	if booking.CustomerID != contextGetUserId(app.sessionManager, r) {
		app.notFoundResponse(w, r)
		return
	}

	refund, err := app.refundRepo.CreateRequest(r.Context(), bookingID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidTransition):
			app.errorResponse(w, r, http.StatusConflict, "only confirmed bookings can be refunded")
		case errors.Is(err, domain.ErrNoActivePayment):
			app.errorResponse(w, r, http.StatusConflict, "booking has no completed payment to refund")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.RefundResponse{
		Id:        refund.ID,
		BookingId: bookingID,
		Status:    string(refund.Status),
		Reason:    refund.Reason,
		Date:      refund.RefundDate,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRefunds(w http.ResponseWriter, r *http.Request) {
	pagination := readPagination(r)

	status := domain.RefundStatus(r.URL.Query().Get("status"))
	switch status {
	case domain.RefundStatusPending, domain.RefundStatusApproved, domain.RefundStatusRejected:
	case "":
		status = domain.RefundStatusPending
	default:
		app.badRequestResponse(w, r, errors.New("status must be one of: pending, approved, rejected"))
		return
	}

	refunds, metadata, err := app.refundRepo.GetByStatus(r.Context(), status, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.RefundListResponse{
		Refunds:  make([]api.RefundSummary, 0, len(refunds)),
		Metadata: toApiMetadata(*metadata),
	}
	for i := range refunds {
		resp.Refunds = append(resp.Refunds, toRefundSummary(&refunds[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ApproveRefund(w http.ResponseWriter, r *http.Request) {
	refundID, err := readIDParam(r, "refundId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.ApproveRefundRequest

	err = app.readJSON(w, r, &req)
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

	if !req.Amount.IsPositive() {
		app.badRequestResponse(w, r, errors.New("amount must be greater than zero"))
		return
	}

	employeeID := contextGetUserId(app.sessionManager, r)

	err = app.refundRepo.Approve(r.Context(), refundID, employeeID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrRefundNotPending):
			app.errorResponse(w, r, http.StatusConflict, "refund request has already been processed")
		case errors.Is(err, domain.ErrRefundExceedsPaid):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "refund amount cannot exceed the paid amount")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.notifyRefundDecision(r, refundID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) RejectRefund(w http.ResponseWriter, r *http.Request) {
	refundID, err := readIDParam(r, "refundId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	employeeID := contextGetUserId(app.sessionManager, r)

	err = app.refundRepo.Reject(r.Context(), refundID, employeeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrRefundNotPending):
			app.errorResponse(w, r, http.StatusConflict, "refund request has already been processed")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.notifyRefundDecision(r, refundID)

	w.WriteHeader(http.StatusNoContent)
}

// notifyRefundDecision emails the customer the outcome of their refund request.
func (app *Application) notifyRefundDecision(r *http.Request, refundID int) {
	logger := contextGetLogger(r.Context(), app.logger)

	refund, err := app.refundRepo.GetById(r.Context(), refundID)
	if err != nil {
		logger.Error("failed to load refund for decision email", "refund_id", refundID, "error", err)
		return
	}

	app.sendEmail(r, refund.CustomerEmail, "refund_decision.tmpl", map[string]any{
		"customerName": refund.CustomerName,
		"movieTitle":   refund.MovieTitle,
		"bookingID":    refund.BookingID,
		"decision":     string(refund.Status),
		"amount":       refund.Amount.StringFixed(2),
	})
}

func toRefundSummary(refund *domain.RefundSummary) api.RefundSummary {
	return api.RefundSummary{
		Id:            refund.ID,
		BookingId:     refund.BookingID,
		Amount:        refund.Amount,
		BookingAmount: refund.BookingAmount,
		Reason:        refund.Reason,
		Status:        string(refund.Status),
		CustomerName:  refund.CustomerName,
		MovieTitle:    refund.MovieTitle,
		Date:          refund.RefundDate,
	}
}

package integration_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RefundFlowSuite struct {
	BaseSuite
}

func TestRefundFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(RefundFlowSuite))
}

// confirmedBooking books two seats with cash and has staff approve it, so the
// booking carries a completed payment that can be refunded.
func (s *RefundFlowSuite) confirmedBooking(
	fixture cinemaFixture,
	customerCookie, staffCookie *http.Cookie,
	seatIDs []int) api.BookingResponse {

	rec := doRequest(s.T(), s.app, http.MethodPost, "/bookings", api.CreateBookingRequest{
		ScreeningId:   fixture.ScreeningID,
		SeatIdList:    seatIDs,
		PaymentMethod: "cash",
	}, customerCookie)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	booking := decodeResponse[api.BookingResponse](s.T(), rec)

	rec = doRequest(s.T(), s.app, http.MethodPost, fmt.Sprintf("/bookings/%d/approve", booking.Id), nil, staffCookie)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	return booking
}

func (s *RefundFlowSuite) TestApprovedRefundFreesSeats() {
	fixture := seedCinema(s.T(), s.app, "Hall Refund Approve")

	customer := createUser(s.T(), s.app, uniqueEmail("customer"), domain.RoleCustomer)
	customerCookie := login(s.T(), s.app, customer.Email)

	employee := createUser(s.T(), s.app, uniqueEmail("employee"), domain.RoleEmployee)
	staffCookie := login(s.T(), s.app, employee.Email)

	booking := s.confirmedBooking(fixture, customerCookie, staffCookie, fixture.SeatIDs[:2])

	// Customer asks for their money back.
	rec := doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/bookings/%d/refund-request", booking.Id),
		api.RefundRequestRequest{Reason: "cannot make the screening"}, customerCookie)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	refund := decodeResponse[api.RefundResponse](s.T(), rec)
	s.Equal(string(domain.RefundStatusPending), refund.Status)

	// A second request finds the booking already pending refund.
	rec = doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/bookings/%d/refund-request", booking.Id),
		api.RefundRequestRequest{Reason: "asking twice"}, customerCookie)
	s.Equal(http.StatusConflict, rec.Code)

	// Staff sees the request in the pending queue.
	rec = doRequest(s.T(), s.app, http.MethodGet, "/refunds", nil, staffCookie)
	s.Require().Equal(http.StatusOK, rec.Code)

	refunds := decodeResponse[api.RefundListResponse](s.T(), rec)
	s.Require().NotEmpty(refunds.Refunds)
	s.Equal(refund.Id, refunds.Refunds[0].Id)

	// Refunding more than was paid is refused.
	rec = doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/refunds/%d/approve", refund.Id),
		api.ApproveRefundRequest{Amount: decimal.NewFromInt(1000)}, staffCookie)
	s.Equal(http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/refunds/%d/approve", refund.Id),
		api.ApproveRefundRequest{Amount: decimalFromString(s.T(), "24.00")}, staffCookie)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	// Deciding the same request twice is a conflict.
	rec = doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/refunds/%d/approve", refund.Id),
		api.ApproveRefundRequest{Amount: decimalFromString(s.T(), "24.00")}, staffCookie)
	s.Equal(http.StatusConflict, rec.Code)

	// The refunded booking stays in the customer's history with its seats.
	rec = doRequest(s.T(), s.app, http.MethodGet, "/users/me/bookings", nil, customerCookie)
	s.Require().Equal(http.StatusOK, rec.Code)

	bookings := decodeResponse[api.BookingListResponse](s.T(), rec)
	s.Require().NotEmpty(bookings.Bookings)
	s.Equal(booking.Id, bookings.Bookings[0].Id)
	s.Equal(string(domain.BookingStatusRefunded), bookings.Bookings[0].Status)
	s.Equal("A1, A2", bookings.Bookings[0].Seats)

	// But it no longer blocks its seats.
	rec = doRequest(s.T(), s.app, http.MethodPost, "/bookings", api.CreateBookingRequest{
		ScreeningId:   fixture.ScreeningID,
		SeatIdList:    fixture.SeatIDs[:2],
		PaymentMethod: "cash",
	}, customerCookie)
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())

	// History now carries both the refunded and the fresh booking.
	rec = doRequest(s.T(), s.app, http.MethodGet, "/users/me/bookings", nil, customerCookie)
	s.Require().Equal(http.StatusOK, rec.Code)

	bookings = decodeResponse[api.BookingListResponse](s.T(), rec)
	s.Len(bookings.Bookings, 2)
}

func (s *RefundFlowSuite) TestRejectedRefundKeepsBooking() {
	fixture := seedCinema(s.T(), s.app, "Hall Refund Reject")

	customer := createUser(s.T(), s.app, uniqueEmail("customer"), domain.RoleCustomer)
	customerCookie := login(s.T(), s.app, customer.Email)

	employee := createUser(s.T(), s.app, uniqueEmail("employee"), domain.RoleEmployee)
	staffCookie := login(s.T(), s.app, employee.Email)

	booking := s.confirmedBooking(fixture, customerCookie, staffCookie, fixture.SeatIDs[:2])

	rec := doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/bookings/%d/refund-request", booking.Id),
		api.RefundRequestRequest{Reason: "changed my mind"}, customerCookie)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	refund := decodeResponse[api.RefundResponse](s.T(), rec)

	rec = doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/refunds/%d/reject", refund.Id), nil, staffCookie)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	// The booking goes back to confirmed and its seats stay taken.
	rec = doRequest(s.T(), s.app, http.MethodGet, "/users/me/bookings", nil, customerCookie)
	s.Require().Equal(http.StatusOK, rec.Code)

	bookings := decodeResponse[api.BookingListResponse](s.T(), rec)
	s.Require().NotEmpty(bookings.Bookings)
	s.Equal(string(domain.BookingStatusConfirmed), bookings.Bookings[0].Status)

	rec = doRequest(s.T(), s.app, http.MethodPost, "/bookings", api.CreateBookingRequest{
		ScreeningId:   fixture.ScreeningID,
		SeatIdList:    fixture.SeatIDs[:2],
		PaymentMethod: "cash",
	}, customerCookie)
	s.Equal(http.StatusConflict, rec.Code, rec.Body.String())
}

func (s *RefundFlowSuite) TestRefundRequiresOwnership() {
	fixture := seedCinema(s.T(), s.app, "Hall Refund Ownership")

	customer := createUser(s.T(), s.app, uniqueEmail("customer"), domain.RoleCustomer)
	customerCookie := login(s.T(), s.app, customer.Email)

	employee := createUser(s.T(), s.app, uniqueEmail("employee"), domain.RoleEmployee)
	staffCookie := login(s.T(), s.app, employee.Email)

	stranger := createUser(s.T(), s.app, uniqueEmail("stranger"), domain.RoleCustomer)
	strangerCookie := login(s.T(), s.app, stranger.Email)

	booking := s.confirmedBooking(fixture, customerCookie, staffCookie, fixture.SeatIDs[:1])

	// Another customer cannot see, let alone refund, this booking.
	rec := doRequest(s.T(), s.app, http.MethodPost,
		fmt.Sprintf("/bookings/%d/refund-request", booking.Id),
		api.RefundRequestRequest{Reason: "not mine"}, strangerCookie)
	s.Equal(http.StatusNotFound, rec.Code, rec.Body.String())
}

package app

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/selimyuksel/cinema-booking-system/api"
	"github.com/selimyuksel/cinema-booking-system/internal/domain"
	"github.com/selimyuksel/cinema-booking-system/internal/mocks"
	appvalidator "github.com/selimyuksel/cinema-booking-system/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RefundTestSuite struct {
	suite.Suite
	app         *Application
	bookingRepo *mocks.MockBookingRepo
	refundRepo  *mocks.MockRefundRepo
}

func (s *RefundTestSuite) SetupTest() {
	s.bookingRepo = new(mocks.MockBookingRepo)
	s.refundRepo = new(mocks.MockRefundRepo)

	s.app = newTestApplication(func(a *Application) {
		a.bookingRepo = s.bookingRepo
		a.refundRepo = s.refundRepo
	})
}

func TestRefundSuite(t *testing.T) {
	suite.Run(t, new(RefundTestSuite))
}

func (s *RefundTestSuite) TestRequestRefund() {
	ownBooking := &domain.Booking{
		ID:         7,
		CustomerID: testCustomerID,
		Status:     domain.BookingStatusConfirmed,
	}

	tests := []struct {
		name           string
		bookingID      string
		input          api.RefundRequestRequest
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "should fail when reason is missing",
			bookingID:      "7",
			input:          api.RefundRequestRequest{},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: appvalidator.ErrRequired,
		},
		{
			name:      "should fail when booking does not exist",
			bookingID: "7",
			input:     api.RefundRequestRequest{Reason: "double charge"},
			setupMocks: func() {
				s.bookingRepo.On("GetById", mock.Anything, 7).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:      "should fail when booking belongs to another customer",
			bookingID: "7",
			input:     api.RefundRequestRequest{Reason: "double charge"},
			setupMocks: func() {
				s.bookingRepo.On("GetById", mock.Anything, 7).Return(&domain.Booking{
					ID:         7,
					CustomerID: testCustomerID + 1,
					Status:     domain.BookingStatusConfirmed,
				}, nil)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:      "should fail when booking is not confirmed",
			bookingID: "7",
			input:     api.RefundRequestRequest{Reason: "double charge"},
			setupMocks: func() {
				s.bookingRepo.On("GetById", mock.Anything, 7).Return(ownBooking, nil)
				s.refundRepo.On("CreateRequest", mock.Anything, 7, "double charge").
					Return(nil, domain.ErrInvalidTransition)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "only confirmed bookings can be refunded",
		},
		{
			name:      "should fail when booking has no completed payment",
			bookingID: "7",
			input:     api.RefundRequestRequest{Reason: "double charge"},
			setupMocks: func() {
				s.bookingRepo.On("GetById", mock.Anything, 7).Return(ownBooking, nil)
				s.refundRepo.On("CreateRequest", mock.Anything, 7, "double charge").
					Return(nil, domain.ErrNoActivePayment)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "booking has no completed payment to refund",
		},
		{
			name:      "should create a pending refund request",
			bookingID: "7",
			input:     api.RefundRequestRequest{Reason: "double charge"},
			setupMocks: func() {
				s.bookingRepo.On("GetById", mock.Anything, 7).Return(ownBooking, nil)
				s.refundRepo.On("CreateRequest", mock.Anything, 7, "double charge").
					Return(&domain.Refund{
						ID:     3,
						Status: domain.RefundStatusPending,
						Reason: "double charge",
					}, nil)
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.bookingRepo.AssertExpectations(s.T())
			defer s.refundRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			url := fmt.Sprintf("/bookings/%s/refund-request", tt.bookingID)
			w, r := executeRequest(s.T(), http.MethodPost, url, tt.input)
			r = setupTestSession(s.T(), s.app, r, testCustomerID, domain.RoleCustomer)
			r = withURLParam(r, "bookingId", tt.bookingID)

			handler := s.app.sessionManager.LoadAndSave(http.HandlerFunc(s.app.RequestRefund))
			handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *RefundTestSuite) TestApproveRefund() {
	refundSummary := &domain.RefundSummary{
		Refund: domain.Refund{
			ID:     3,
			Amount: decimal.NewFromInt(24),
			Status: domain.RefundStatusApproved,
		},
		BookingID:     7,
		BookingAmount: decimal.NewFromInt(24),
		CustomerName:  "Freddie Mercury",
		CustomerEmail: "freddie@example.com",
		MovieTitle:    "Interstellar",
	}

	tests := []struct {
		name           string
		input          api.ApproveRefundRequest
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "should fail when amount is not positive",
			input:          api.ApproveRefundRequest{Amount: decimal.NewFromInt(-5)},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "amount must be greater than zero",
		},
		{
			name:  "should fail when refund does not exist",
			input: api.ApproveRefundRequest{Amount: decimal.NewFromInt(24)},
			setupMocks: func() {
				s.refundRepo.On("Approve", mock.Anything, 3, 2, mock.Anything).
					Return(domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:  "should fail when refund was already processed",
			input: api.ApproveRefundRequest{Amount: decimal.NewFromInt(24)},
			setupMocks: func() {
				s.refundRepo.On("Approve", mock.Anything, 3, 2, mock.Anything).
					Return(domain.ErrRefundNotPending)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "refund request has already been processed",
		},
		{
			name:  "should fail when amount exceeds the paid amount",
			input: api.ApproveRefundRequest{Amount: decimal.NewFromInt(100)},
			setupMocks: func() {
				s.refundRepo.On("Approve", mock.Anything, 3, 2, mock.Anything).
					Return(domain.ErrRefundExceedsPaid)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "refund amount cannot exceed the paid amount",
		},
		{
			name:  "should approve a pending refund",
			input: api.ApproveRefundRequest{Amount: decimal.NewFromInt(24)},
			setupMocks: func() {
				s.refundRepo.On("Approve", mock.Anything, 3, 2, mock.Anything).Return(nil)
				s.refundRepo.On("GetById", mock.Anything, 3).Return(refundSummary, nil)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.refundRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/refunds/3/approve", tt.input)
			r = setupTestSession(s.T(), s.app, r, 2, domain.RoleEmployee)
			r = withURLParam(r, "refundId", "3")

			handler := s.app.sessionManager.LoadAndSave(http.HandlerFunc(s.app.ApproveRefund))
			handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *RefundTestSuite) TestRejectRefund() {
	tests := []struct {
		name           string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "should fail when refund was already processed",
			setupMocks: func() {
				s.refundRepo.On("Reject", mock.Anything, 3, 2).Return(domain.ErrRefundNotPending)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "refund request has already been processed",
		},
		{
			name: "should reject a pending refund",
			setupMocks: func() {
				s.refundRepo.On("Reject", mock.Anything, 3, 2).Return(nil)
				s.refundRepo.On("GetById", mock.Anything, 3).Return(&domain.RefundSummary{
					Refund: domain.Refund{
						ID:     3,
						Status: domain.RefundStatusRejected,
					},
					BookingID:     7,
					CustomerEmail: "freddie@example.com",
				}, nil)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.refundRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/refunds/3/reject", nil)
			r = setupTestSession(s.T(), s.app, r, 2, domain.RoleEmployee)
			r = withURLParam(r, "refundId", "3")

			handler := s.app.sessionManager.LoadAndSave(http.HandlerFunc(s.app.RejectRefund))
			handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

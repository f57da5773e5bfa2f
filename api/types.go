// Package api holds the wire types of the HTTP API. Validation rules live on
// the request types as validator tags and are enforced by the handlers.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
	Password  string `json:"password" validate:"required,password"`
}

type CreateStaffRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
	Password  string `json:"password" validate:"required,password"`
	Role      string `json:"role" validate:"required,oneof=employee manager"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type MovieResponse struct {
	Id          int       `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Duration    int       `json:"duration"`
	Rating      string    `json:"rating"`
	Director    string    `json:"director"`
	Cast        string    `json:"cast"`
	Synopsis    string    `json:"synopsis"`
	ReleaseDate time.Time `json:"releaseDate"`
}

type MovieListResponse struct {
	Movies   []MovieResponse `json:"movies"`
	Metadata Metadata        `json:"metadata"`
}

type CreateMovieRequest struct {
	Title       string    `json:"title" validate:"required,max=150"`
	Genre       string    `json:"genre" validate:"required,max=50"`
	Duration    int       `json:"duration" validate:"required,gt=0"`
	Rating      string    `json:"rating" validate:"required,max=10"`
	Director    string    `json:"director" validate:"required,max=100"`
	Cast        string    `json:"cast" validate:"required"`
	Synopsis    string    `json:"synopsis" validate:"required"`
	ReleaseDate time.Time `json:"releaseDate" validate:"required"`
}

type HallResponse struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type HallListResponse struct {
	Halls []HallResponse `json:"halls"`
}

type ScreeningResponse struct {
	Id             int             `json:"id"`
	MovieId        int             `json:"movieId"`
	MovieTitle     string          `json:"movieTitle"`
	HallId         int             `json:"hallId"`
	HallName       string          `json:"hallName"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	TicketPrice    decimal.Decimal `json:"ticketPrice"`
	AvailableSeats int             `json:"availableSeats"`
}

type ScreeningListResponse struct {
	Screenings []ScreeningResponse `json:"screenings"`
	Metadata   Metadata            `json:"metadata"`
}

type CreateScreeningRequest struct {
	MovieId     int              `json:"movieId" validate:"required,gt=0"`
	HallId      int              `json:"hallId" validate:"required,gt=0"`
	StartTime   time.Time        `json:"startTime" validate:"required"`
	EndTime     time.Time        `json:"endTime" validate:"required,gtfield=StartTime"`
	TicketPrice *decimal.Decimal `json:"ticketPrice,omitempty"`
}

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusHeld      SeatStatus = "held"
)

type Seat struct {
	Id     int        `json:"id"`
	Row    string     `json:"row"`
	Number int        `json:"number"`
	Type   string     `json:"type"`
	Status SeatStatus `json:"status"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ScreeningId int       `json:"screeningId"`
	HallId      int       `json:"hallId"`
	HallName    string    `json:"hallName"`
	MovieTitle  string    `json:"movieTitle"`
	SeatRows    []SeatRow `json:"seatRows"`
}

type CreateHoldRequest struct {
	SeatIdList []int `json:"seatIdList" validate:"required,min=1,max=10,unique,dive,gt=0"`
}

type HoldResponse struct {
	ScreeningId int   `json:"screeningId"`
	SeatIdList  []int `json:"seatIdList"`
	HoldTime    int   `json:"holdTime"`
}

type CreateBookingRequest struct {
	ScreeningId   int    `json:"screeningId" validate:"required,gt=0"`
	SeatIdList    []int  `json:"seatIdList" validate:"required,min=1,max=10,unique,dive,gt=0"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cash card"`
}

type BookingSeat struct {
	Id     int    `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Type   string `json:"type"`
}

type PaymentInfo struct {
	Id     int             `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Status string          `json:"status"`
}

type BookingResponse struct {
	Id          int             `json:"id"`
	ScreeningId int             `json:"screeningId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	BookingDate time.Time       `json:"bookingDate"`
	Seats       []BookingSeat   `json:"seats"`
	Payment     PaymentInfo     `json:"payment"`
	CheckoutUrl *string         `json:"checkoutUrl,omitempty"`
}

type BookingSummary struct {
	Id            int             `json:"id"`
	BookingDate   time.Time       `json:"bookingDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	MovieTitle    string          `json:"movieTitle"`
	HallName      string          `json:"hallName"`
	StartTime     time.Time       `json:"startTime"`
	Seats         string          `json:"seats"`
}

type BookingListResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type RefundRequestRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type RefundResponse struct {
	Id        int       `json:"id"`
	BookingId int       `json:"bookingId"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Date      time.Time `json:"date"`
}

type ApproveRefundRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type RefundSummary struct {
	Id            int             `json:"id"`
	BookingId     int             `json:"bookingId"`
	Amount        decimal.Decimal `json:"amount"`
	BookingAmount decimal.Decimal `json:"bookingAmount"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customerName"`
	MovieTitle    string          `json:"movieTitle"`
	Date          time.Time       `json:"date"`
}

type RefundListResponse struct {
	Refunds  []RefundSummary `json:"refunds"`
	Metadata Metadata        `json:"metadata"`
}

package domain

import "errors"

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRecordNotFound    = errors.New("record not found")
	ErrSeatAlreadyBooked = errors.New("seat(s) are already booked for this screening")
	ErrSeatAlreadyHeld   = errors.New("seat(s) are currently held by another session")
	ErrSeatNotFound      = errors.New("seat(s) do not belong to the screening's hall")
	ErrInvalidTransition = errors.New("booking is not in a status that allows this operation")
	ErrRefundNotPending  = errors.New("refund request has already been processed")
	ErrRefundExceedsPaid = errors.New("refund amount exceeds the original payment")
	ErrScheduleConflict  = errors.New("hall already has a screening in this time window")
	ErrNoActivePayment   = errors.New("booking has no active payment")
)

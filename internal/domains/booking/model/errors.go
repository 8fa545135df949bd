package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentAlreadySettled = errors.New("payment status already settled")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrDuplicateReference    = errors.New("booking reference already exists")
)

// =====================================================
// CUSTOM BOOKING ERROR
// =====================================================

type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

// NewBookingError creates a new booking error
func NewBookingError(code, message string, err error) *BookingError {
	return &BookingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewBookingNotFoundError(reference string) *BookingError {
	return NewBookingError(
		ErrCodeBookingNotFound,
		fmt.Sprintf("Booking not found: %s", reference),
		ErrBookingNotFound,
	)
}

func NewPaymentAlreadySettledError(current string) *BookingError {
	return NewBookingError(
		ErrCodePaymentAlreadySettled,
		fmt.Sprintf("Payment status is already '%s', only 'pending' bookings can be settled", current),
		ErrPaymentAlreadySettled,
	)
}

func NewInvalidPaymentStatusError(status string) *BookingError {
	return NewBookingError(
		ErrCodeInvalidPaymentStatus,
		fmt.Sprintf("Cannot transition payment status to '%s'", status),
		ErrInvalidPaymentStatus,
	)
}

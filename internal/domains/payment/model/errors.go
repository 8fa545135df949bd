package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrHashMismatch     = errors.New("gateway hash mismatch")
	ErrMissingField     = errors.New("required gateway field missing")
	ErrWebhookNotFound  = errors.New("webhook log entry not found")
	ErrSettlementLocked = errors.New("settlement in progress for booking")
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewValidationError(message string) *PaymentError {
	return NewPaymentError(ErrCodePaymentValidation, message, ErrMissingField)
}

func NewTamperedError(reference string) *PaymentError {
	return NewPaymentError(
		ErrCodePaymentTampered,
		fmt.Sprintf("Hash verification failed for booking %s", reference),
		ErrHashMismatch,
	)
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// BOOKING ENTITY
// =====================================================
type Booking struct {
	ID               uuid.UUID `json:"id" db:"id"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`

	// Tour snapshot (catalog itself lives in the CMS)
	TourName string `json:"tour_name" db:"tour_name"`

	// Customer information
	CustomerName  string `json:"customer_name" db:"customer_name"`
	CustomerEmail string `json:"customer_email" db:"customer_email"`
	CustomerPhone string `json:"customer_phone" db:"customer_phone"`

	// Trip details
	SelectedDate         time.Time `json:"selected_date" db:"selected_date"`
	NumberOfParticipants int       `json:"number_of_participants" db:"number_of_participants"`

	// Money
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`

	SpecialRequirements *string `json:"special_requirements,omitempty" db:"special_requirements"`

	// Status tracking
	BookingStatus string `json:"booking_status" db:"booking_status"`
	PaymentStatus string `json:"payment_status" db:"payment_status"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsPaymentPending reports whether the booking can still be settled
func (b *Booking) IsPaymentPending() bool {
	return b.PaymentStatus == PaymentStatusPending
}

// IsConfirmed checks if the booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.BookingStatus == BookingStatusConfirmed
}

// =====================================================
// PAYMENT STATUS TRANSITION
// =====================================================

// TransitionPaymentStatus is the single guarded state transition shared by
// the webhook, success and failure entry points. A payment may leave
// 'pending' exactly once; any later attempt is a conflict, which is the
// replay defense against duplicate gateway callbacks.
func TransitionPaymentStatus(current, desired string) (string, error) {
	if desired != PaymentStatusPaid && desired != PaymentStatusFailed {
		return "", NewInvalidPaymentStatusError(desired)
	}

	if current != PaymentStatusPending {
		return "", NewPaymentAlreadySettledError(current)
	}

	return desired, nil
}

// BookingStatusForPayment maps a settled payment status to the booking
// status. A failed payment leaves the booking 'pending' — never cancelled —
// so the customer can retry the payment.
func BookingStatusForPayment(paymentStatus string) string {
	if paymentStatus == PaymentStatusPaid {
		return BookingStatusConfirmed
	}
	return BookingStatusPending
}

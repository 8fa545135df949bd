package model

// =====================================================
// BOOKING STATUS
// =====================================================
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

var ValidBookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

// =====================================================
// PAYMENT STATUS
// =====================================================
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

var ValidPaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
}

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeBookingNotFound       = "BKG001"
	ErrCodeInvalidBookingRequest = "BKG002"
	ErrCodePaymentAlreadySettled = "BKG003"
	ErrCodeInvalidPaymentStatus  = "BKG004"
	ErrCodeBookingInternalError  = "BKG005"
	ErrCodeDuplicateReference    = "BKG006"
)

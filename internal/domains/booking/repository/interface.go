package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tourbooking-backend/internal/domains/booking/model"
)

// BookingRepository is the data access contract for bookings
type BookingRepository interface {
	// Create inserts a new booking in (pending, pending)
	Create(ctx context.Context, booking *model.Booking) error

	// GetByID resolves a booking by its opaque id
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)

	// GetByReference resolves a booking by the human-shareable reference
	// (the payment gateway's order id)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)

	// UpdatePaymentStatusTx performs the compare-and-swap settlement write
	// within the caller's transaction:
	//
	//   UPDATE ... SET payment_status = new, booking_status = new
	//   WHERE id = $id AND payment_status = $expected
	//
	// Zero rows affected means another callback settled the booking first;
	// model.ErrPaymentAlreadySettled is returned so the caller can answer
	// with a conflict instead of double-writing.
	UpdatePaymentStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected, newPaymentStatus, newBookingStatus string) error

	// ListStalePending lists bookings stuck in payment_status='pending'
	// created before the cutoff. Used by the expiry job.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error)
}

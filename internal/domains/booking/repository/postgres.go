package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking-backend/internal/domains/booking/model"
)

// =====================================================
// BOOKING REPOSITORY IMPLEMENTATION
// =====================================================
type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `
	id, booking_reference, tour_name,
	customer_name, customer_email, customer_phone,
	selected_date, number_of_participants, total_amount,
	special_requirements, booking_status, payment_status,
	created_at, updated_at
`

// Create inserts a new booking record
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, booking_reference, tour_name,
			customer_name, customer_email, customer_phone,
			selected_date, number_of_participants, total_amount,
			special_requirements, booking_status, payment_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		booking.ID,
		booking.BookingReference,
		booking.TourName,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.SelectedDate,
		booking.NumberOfParticipants,
		booking.TotalAmount,
		booking.SpecialRequirements,
		booking.BookingStatus,
		booking.PaymentStatus,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID fetches a booking by primary key
func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by id: %w", err)
	}

	return booking, nil
}

// GetByReference fetches a booking by the gateway order id
func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1`

	booking, err := r.scanBooking(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by reference: %w", err)
	}

	return booking, nil
}

// UpdatePaymentStatusTx performs the settlement CAS within a transaction.
// The WHERE clause carries the expected status, so two racing callbacks
// can never both update: the loser sees zero rows affected.
func (r *bookingRepository) UpdatePaymentStatusTx(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	expected, newPaymentStatus, newBookingStatus string,
) error {
	query := `
		UPDATE bookings
		SET payment_status = $1,
			booking_status = $2,
			updated_at = NOW()
		WHERE id = $3 AND payment_status = $4
	`

	result, err := tx.Exec(ctx, query, newPaymentStatus, newBookingStatus, id, expected)
	if err != nil {
		return fmt.Errorf("failed to update booking payment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either the booking vanished or another callback won the race.
		// Callers resolve the booking first, so this is the conflict case.
		return model.ErrPaymentAlreadySettled
	}

	return nil
}

// ListStalePending lists pending-payment bookings older than the cutoff
func (r *bookingRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE payment_status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.PaymentStatusPending, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booking rows: %w", err)
	}

	return bookings, nil
}

// scanBooking maps one row onto the entity
func (r *bookingRepository) scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingReference,
		&b.TourName,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.SelectedDate,
		&b.NumberOfParticipants,
		&b.TotalAmount,
		&b.SpecialRequirements,
		&b.BookingStatus,
		&b.PaymentStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

package service

import (
	"context"

	"tourbooking-backend/internal/domains/booking/model"
)

// BookingService is the business logic contract for bookings
type BookingService interface {
	// CreateBooking creates a booking in (pending, pending)
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.BookingResponse, error)

	// GetBookingByReference resolves a booking for the checkout page
	GetBookingByReference(ctx context.Context, reference string) (*model.BookingResponse, error)
}

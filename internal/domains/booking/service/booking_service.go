package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourbooking-backend/internal/domains/booking/model"
	"tourbooking-backend/internal/domains/booking/repository"
	"tourbooking-backend/internal/shared/utils"
)

// =====================================================
// BOOKING SERVICE IMPLEMENTATION
// =====================================================
type bookingService struct {
	bookingRepo repository.BookingRepository
}

func NewBookingService(bookingRepo repository.BookingRepository) BookingService {
	return &bookingService{bookingRepo: bookingRepo}
}

// CreateBooking creates a new booking
//
// Business Logic Flow:
// 1. Validate request
// 2. Generate id + booking reference (gateway order id)
// 3. Insert in (pending, pending) — payment callbacks move it forward
func (s *bookingService) CreateBooking(
	ctx context.Context,
	req model.CreateBookingRequest,
) (*model.BookingResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewBookingError(model.ErrCodeInvalidBookingRequest, "Invalid booking request", err)
	}

	// Step 2: Parse trip date (format already validated)
	selectedDate, err := time.Parse("2006-01-02", req.SelectedDate)
	if err != nil {
		return nil, model.NewBookingError(model.ErrCodeInvalidBookingRequest, "Invalid selected date", err)
	}

	// Step 3: Build entity
	booking := &model.Booking{
		ID:                   uuid.New(),
		BookingReference:     utils.GenerateBookingReference(),
		TourName:             req.TourName,
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerPhone:        req.CustomerPhone,
		SelectedDate:         selectedDate,
		NumberOfParticipants: req.NumberOfParticipants,
		TotalAmount:          decimal.NewFromFloat(req.TotalAmount),
		SpecialRequirements:  req.SpecialRequirements,
		BookingStatus:        model.BookingStatusPending,
		PaymentStatus:        model.PaymentStatusPending,
	}

	// Step 4: Persist
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking.ToResponse(), nil
}

// GetBookingByReference resolves a booking for the checkout page
func (s *bookingService) GetBookingByReference(
	ctx context.Context,
	reference string,
) (*model.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		if err == model.ErrBookingNotFound {
			return nil, model.NewBookingNotFoundError(reference)
		}
		return nil, fmt.Errorf("failed to resolve booking: %w", err)
	}

	return booking.ToResponse(), nil
}

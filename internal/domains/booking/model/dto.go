package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest is the inbound payload for the checkout flow.
// Bookings are always created in (pending, pending); only the payment
// callbacks move them forward.
type CreateBookingRequest struct {
	TourName             string  `json:"tour_name"`
	CustomerName         string  `json:"customer_name"`
	CustomerEmail        string  `json:"customer_email"`
	CustomerPhone        string  `json:"customer_phone"`
	SelectedDate         string  `json:"selected_date"` // YYYY-MM-DD
	NumberOfParticipants int     `json:"number_of_participants"`
	TotalAmount          float64 `json:"total_amount"`
	SpecialRequirements  *string `json:"special_requirements,omitempty"`
}

func (r CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TourName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.CustomerName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.CustomerEmail, validation.Required, is.Email),
		validation.Field(&r.CustomerPhone, validation.Required, validation.Length(5, 32)),
		validation.Field(&r.SelectedDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.NumberOfParticipants, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&r.TotalAmount, validation.Required, validation.Min(0.01)),
	)
}

// BookingResponse is the public read model used by the checkout page
type BookingResponse struct {
	ID                   uuid.UUID       `json:"id"`
	BookingReference     string          `json:"booking_reference"`
	TourName             string          `json:"tour_name"`
	CustomerName         string          `json:"customer_name"`
	CustomerEmail        string          `json:"customer_email"`
	CustomerPhone        string          `json:"customer_phone"`
	SelectedDate         time.Time       `json:"selected_date"`
	NumberOfParticipants int             `json:"number_of_participants"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	SpecialRequirements  *string         `json:"special_requirements,omitempty"`
	BookingStatus        string          `json:"booking_status"`
	PaymentStatus        string          `json:"payment_status"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ToResponse maps the entity to the read model
func (b *Booking) ToResponse() *BookingResponse {
	return &BookingResponse{
		ID:                   b.ID,
		BookingReference:     b.BookingReference,
		TourName:             b.TourName,
		CustomerName:         b.CustomerName,
		CustomerEmail:        b.CustomerEmail,
		CustomerPhone:        b.CustomerPhone,
		SelectedDate:         b.SelectedDate,
		NumberOfParticipants: b.NumberOfParticipants,
		TotalAmount:          b.TotalAmount,
		SpecialRequirements:  b.SpecialRequirements,
		BookingStatus:        b.BookingStatus,
		PaymentStatus:        b.PaymentStatus,
		CreatedAt:            b.CreatedAt,
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbooking-backend/internal/domains/booking/model"
	"tourbooking-backend/internal/domains/booking/service"
	"tourbooking-backend/internal/shared/response"
	"tourbooking-backend/pkg/logger"
)

// =====================================================
// BOOKING HANDLER
// =====================================================
type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidBookingRequest, "Invalid request body")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	logger.Info("booking created", map[string]interface{}{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
	})
	response.Success(c, http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/bookings/:reference
func (h *BookingHandler) GetBooking(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidBookingRequest, "Booking reference is required")
		return
	}

	booking, err := h.bookingService.GetBookingByReference(c.Request.Context(), reference)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, booking)
}

// mapError translates domain errors into HTTP responses
func (h *BookingHandler) mapError(c *gin.Context, err error) {
	var bookingErr *model.BookingError
	if errors.As(err, &bookingErr) {
		switch bookingErr.Code {
		case model.ErrCodeBookingNotFound:
			response.ErrorResponse(c, http.StatusNotFound, bookingErr.Code, bookingErr.Message)
		case model.ErrCodeInvalidBookingRequest:
			response.ErrorResponse(c, http.StatusBadRequest, bookingErr.Code, bookingErr.Message)
		case model.ErrCodePaymentAlreadySettled:
			response.ErrorResponse(c, http.StatusConflict, bookingErr.Code, bookingErr.Message)
		default:
			logger.Error("booking operation failed", err)
			response.ErrorResponse(c, http.StatusInternalServerError, bookingErr.Code, "Internal server error")
		}
		return
	}

	logger.Error("unexpected booking error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodeBookingInternalError, "Internal server error")
}

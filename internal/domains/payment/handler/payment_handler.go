package handler

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tourbooking-backend/internal/config"
	bookingmodel "tourbooking-backend/internal/domains/booking/model"
	"tourbooking-backend/internal/domains/payment/gateway/nestpay"
	"tourbooking-backend/internal/domains/payment/model"
	"tourbooking-backend/internal/domains/payment/service"
	"tourbooking-backend/internal/shared/response"
	"tourbooking-backend/internal/shared/utils"
	"tourbooking-backend/pkg/logger"
)

// =====================================================
// PAYMENT HANDLER
// =====================================================
type PaymentHandler struct {
	paymentService service.PaymentService
	pages          config.PaymentConfig
}

func NewPaymentHandler(paymentService service.PaymentService, pages config.PaymentConfig) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		pages:          pages,
	}
}

// checkoutPageTmpl renders the hidden form that forwards the customer to
// the hosted payment page. Submits itself as soon as it loads.
var checkoutPageTmpl = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Redirecting to secure payment...</title>
</head>
<body onload="document.getElementById('gateway-form').submit();">
	<p>Redirecting to the secure payment page. Please wait...</p>
	<form id="gateway-form" method="POST" action="{{.ActionURL}}">
{{- range .Fields}}
		<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
		<noscript><button type="submit">Continue to payment</button></noscript>
	</form>
</body>
</html>
`))

// Checkout handles GET /api/v1/payments/:reference/checkout
//
// Renders the signed auto-submit form for a pending booking.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodePaymentValidation, "Booking reference is required")
		return
	}

	form, err := h.paymentService.BuildCheckoutForm(c.Request.Context(), reference)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := checkoutPageTmpl.Execute(c.Writer, form); err != nil {
		logger.Error("failed to render checkout page", err)
	}
}

// GatewayReturn handles /api/v1/payments/response
//
// Classifies the browser-redirect payload (approved / declined /
// tampered / no_data) and returns the full field set for diagnostics.
// Read-only: settlement belongs to the webhook and the settle endpoints.
//
// Registered for all methods: a GET (or an empty POST) means the browser
// arrived without gateway data, which is the neutral no_data outcome,
// not an error.
func (h *PaymentHandler) GatewayReturn(c *gin.Context) {
	var raw []byte
	if c.Request.Method == http.MethodPost {
		var err error
		raw, err = io.ReadAll(c.Request.Body)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodePaymentValidation, "Unreadable request body")
			return
		}
	}

	result, err := h.paymentService.VerifyGatewayReturn(c.Request.Context(), string(raw))
	if err != nil {
		h.mapError(c, err)
		return
	}

	if result.Outcome == model.ReturnOutcomeTampered {
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodePaymentTampered, "Hash verification failed")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Webhook handles the gateway's server-to-server notification at
// /api/v1/webhooks/nestpay. Registered for all methods so non-POST
// calls get an explicit 405.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		response.ErrorResponse(c, http.StatusMethodNotAllowed, model.ErrCodePaymentValidation, "Method not allowed")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodePaymentValidation, "Unreadable request body")
		return
	}

	req, err := nestpay.ParseWebhookRequest(string(raw))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodePaymentValidation, "Malformed webhook body")
		return
	}
	if req.ClientIP == "" {
		req.ClientIP = utils.ExtractClientIP(c)
	}

	ack, err := h.paymentService.ProcessWebhook(c.Request.Context(), *req, string(raw))
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ack)
}

// Success handles /api/v1/payments/success — the redirect-based success
// completion signal.
//
// Business Logic Flow:
// 1. Decide the flow once: query param -> RedirectFlow, body -> ApiFlow
// 2. Settle paid/confirmed (pending-only guard enforced in the service)
// 3. RedirectFlow answers with a browser redirect, ApiFlow with JSON
func (h *PaymentHandler) Success(c *gin.Context) {
	reference, flow := h.resolveReference(c)
	if reference == "" {
		h.respondInvalidReference(c, flow)
		return
	}

	result, err := h.paymentService.SettleSuccess(c.Request.Context(), reference)
	if err != nil {
		h.respondSettleError(c, flow, reference, err)
		return
	}

	if flow == model.RedirectFlow {
		c.Redirect(http.StatusFound, pageURL(h.pages.SuccessPageURL, result.BookingReference))
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Failure handles /api/v1/payments/failure — the redirect-based failure
// signal. Writes the failed transition and leaves booking_status pending
// so the customer can retry.
func (h *PaymentHandler) Failure(c *gin.Context) {
	reference, flow := h.resolveReference(c)
	if reference == "" {
		h.respondInvalidReference(c, flow)
		return
	}

	errCode := firstNonEmpty(c.Query("ErrCode"), c.PostForm("ErrCode"))
	errMsg := firstNonEmpty(c.Query("ErrMsg"), c.PostForm("ErrMsg"))

	result, err := h.paymentService.SettleFailure(c.Request.Context(), reference, errCode, errMsg)
	if err != nil {
		h.respondSettleError(c, flow, reference, err)
		return
	}

	if flow == model.RedirectFlow {
		c.Redirect(http.StatusFound, pageURL(h.pages.FailurePageURL, result.BookingReference))
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListPayments handles GET /api/v1/admin/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	filter := model.ListPaymentsFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}

	records, total, err := h.paymentService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, records, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// ListBookingPayments handles GET /api/v1/admin/bookings/:reference/payments
func (h *PaymentHandler) ListBookingPayments(c *gin.Context) {
	reference := c.Param("reference")
	records, err := h.paymentService.ListPaymentsForBooking(c.Request.Context(), reference)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

// =====================================================
// HELPERS
// =====================================================

// resolveReference extracts the booking reference and fixes the flow
// kind for the rest of the request.
func (h *PaymentHandler) resolveReference(c *gin.Context) (string, model.FlowKind) {
	if ref := c.Query("oid"); ref != "" {
		return ref, model.RedirectFlow
	}
	if ref := c.Query("ref"); ref != "" {
		return ref, model.RedirectFlow
	}
	if ref := c.PostForm("oid"); ref != "" {
		return ref, model.ApiFlow
	}
	var body struct {
		BookingReference string `json:"booking_reference"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.BookingReference != "" {
		return body.BookingReference, model.ApiFlow
	}
	return "", model.ApiFlow
}

func (h *PaymentHandler) respondInvalidReference(c *gin.Context, flow model.FlowKind) {
	if flow == model.RedirectFlow {
		c.Redirect(http.StatusFound, h.pages.ErrorPageURL)
		return
	}
	response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodePaymentValidation, "Booking reference is required")
}

// respondSettleError keeps browser flows off hung requests: every error
// ends in a redirect, API flows get the mapped structured error.
func (h *PaymentHandler) respondSettleError(c *gin.Context, flow model.FlowKind, reference string, err error) {
	if flow == model.ApiFlow {
		h.mapError(c, err)
		return
	}

	switch {
	case errors.Is(err, bookingmodel.ErrPaymentAlreadySettled):
		c.Redirect(http.StatusFound, pageURL(h.pages.ErrorPageURL, reference))
	case errors.Is(err, bookingmodel.ErrBookingNotFound):
		c.Redirect(http.StatusFound, h.pages.ErrorPageURL)
	default:
		logger.Error("settlement failed", err)
		c.Redirect(http.StatusFound, h.pages.ErrorPageURL)
	}
}

// mapError translates domain errors into structured HTTP responses
func (h *PaymentHandler) mapError(c *gin.Context, err error) {
	var paymentErr *model.PaymentError
	if errors.As(err, &paymentErr) {
		switch paymentErr.Code {
		case model.ErrCodePaymentValidation:
			response.ErrorResponse(c, http.StatusBadRequest, paymentErr.Code, paymentErr.Message)
		case model.ErrCodePaymentNotFound:
			response.ErrorResponse(c, http.StatusNotFound, paymentErr.Code, paymentErr.Message)
		case model.ErrCodePaymentConflict:
			response.ErrorResponse(c, http.StatusConflict, paymentErr.Code, paymentErr.Message)
		case model.ErrCodePaymentTampered:
			response.ErrorResponse(c, http.StatusForbidden, paymentErr.Code, paymentErr.Message)
		default:
			logger.Error("payment operation failed", err)
			response.ErrorResponse(c, http.StatusInternalServerError, paymentErr.Code, "Internal server error")
		}
		return
	}

	var bookingErr *bookingmodel.BookingError
	if errors.As(err, &bookingErr) {
		switch bookingErr.Code {
		case bookingmodel.ErrCodeBookingNotFound:
			response.ErrorResponse(c, http.StatusNotFound, bookingErr.Code, bookingErr.Message)
		case bookingmodel.ErrCodePaymentAlreadySettled, bookingmodel.ErrCodeInvalidPaymentStatus:
			response.ErrorResponse(c, http.StatusConflict, bookingErr.Code, bookingErr.Message)
		default:
			logger.Error("payment operation failed", err)
			response.ErrorResponse(c, http.StatusInternalServerError, bookingErr.Code, "Internal server error")
		}
		return
	}

	logger.Error("unexpected payment error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodePaymentInternal, "Internal server error")
}

func pageURL(base, reference string) string {
	if reference == "" {
		return base
	}
	return fmt.Sprintf("%s?ref=%s", base, url.QueryEscape(reference))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}

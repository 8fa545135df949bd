package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	bookingmodel "tourbooking-backend/internal/domains/booking/model"
	bookingrepo "tourbooking-backend/internal/domains/booking/repository"
	"tourbooking-backend/internal/domains/payment/gateway/nestpay"
	"tourbooking-backend/internal/domains/payment/model"
	"tourbooking-backend/internal/domains/payment/repository"
	pkgcache "tourbooking-backend/pkg/cache"
	"tourbooking-backend/pkg/logger"
)

const (
	settleLockPrefix = "payment:settle:"
	settleLockTTL    = 10 * time.Second

	retryBatchSize  = 50
	expireBatchSize = 100

	// maxWebhookAttempts caps replays of a logged notification so a
	// permanently malformed payload is not re-parsed on every cycle.
	maxWebhookAttempts = 5
)

// =====================================================
// PAYMENT SERVICE IMPLEMENTATION
// =====================================================
type paymentService struct {
	bookingRepo    bookingrepo.BookingRepository
	paymentRepo    repository.PaymentRepository
	webhookRepo    repository.WebhookLogRepository
	txManager      repository.TransactionManager
	cache          pkgcache.Cache
	gateway        *nestpay.Client
	timeoutMinutes int
}

func NewPaymentService(
	bookingRepo bookingrepo.BookingRepository,
	paymentRepo repository.PaymentRepository,
	webhookRepo repository.WebhookLogRepository,
	txManager repository.TransactionManager,
	cache pkgcache.Cache,
	gateway *nestpay.Client,
	timeoutMinutes int,
) PaymentService {
	return &paymentService{
		bookingRepo:    bookingRepo,
		paymentRepo:    paymentRepo,
		webhookRepo:    webhookRepo,
		txManager:      txManager,
		cache:          cache,
		gateway:        gateway,
		timeoutMinutes: timeoutMinutes,
	}
}

// BuildCheckoutForm assembles the signed auto-submit form for a booking
//
// Business Logic Flow:
// 1. Resolve the booking by reference
// 2. Reject settled bookings — only pending payments may check out
// 3. Delegate field assembly + signing to the gateway client
func (s *paymentService) BuildCheckoutForm(ctx context.Context, bookingReference string) (*model.CheckoutForm, error) {
	booking, err := s.resolveBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}

	if !booking.IsPaymentPending() {
		return nil, model.NewPaymentError(
			model.ErrCodePaymentConflict,
			fmt.Sprintf("Booking %s is already '%s'", bookingReference, booking.PaymentStatus),
			bookingmodel.ErrPaymentAlreadySettled,
		)
	}

	form := s.gateway.BuildCheckoutForm(nestpay.PaymentOrder{
		BookingReference: booking.BookingReference,
		Amount:           booking.TotalAmount,
		CustomerName:     booking.CustomerName,
		CustomerEmail:    booking.CustomerEmail,
		CustomerPhone:    booking.CustomerPhone,
		TourName:         booking.TourName,
	})

	logger.Info("checkout form built", map[string]interface{}{
		"booking_reference": booking.BookingReference,
		"amount":            booking.TotalAmount.StringFixed(2),
	})

	return form, nil
}

// VerifyGatewayReturn classifies the browser-redirect payload
func (s *paymentService) VerifyGatewayReturn(ctx context.Context, rawBody string) (*model.GatewayReturnResult, error) {
	params, err := nestpay.ParseReturnBody(rawBody)
	if err != nil {
		return nil, model.NewValidationError("Malformed gateway return body")
	}

	result := s.gateway.VerifyReturn(params)

	if result.Outcome == model.ReturnOutcomeTampered {
		logger.Security("gateway return hash mismatch", map[string]interface{}{
			"booking_reference": result.BookingReference,
			"proc_return_code":  result.ProcReturnCode,
		})
	}

	return result, nil
}

// ProcessWebhook performs the authoritative settlement
//
// Business Logic Flow:
//
//  1. Validate required fields (oid, Response, mdStatus)
//  2. Log the raw notification for replay before touching anything
//  3. Settle: strict success condition, CAS-guarded status write + ledger
//     row in one transaction
//  4. Mark the log entry processed (or record why it failed)
func (s *paymentService) ProcessWebhook(ctx context.Context, req model.WebhookRequest, rawPayload string) (*model.WebhookAck, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPaymentError(model.ErrCodePaymentValidation, "Missing required webhook fields", err)
	}

	// Step 2: Persist the notification first; settlement must remain
	// replayable even if everything after this point fails.
	webhookLog := &model.PaymentWebhookLog{
		ID:         uuid.New(),
		BookingRef: req.OrderID,
		RawPayload: rawPayload,
		ReceivedAt: time.Now(),
	}
	logged := true
	if err := s.webhookRepo.Create(ctx, webhookLog); err != nil {
		logged = false
		logger.Warn("failed to log webhook, continuing with settlement", map[string]interface{}{
			"booking_reference": req.OrderID,
			"error":             err.Error(),
		})
	}

	ack, err := s.settleWebhook(ctx, req)

	if logged {
		if err != nil && !errors.Is(err, bookingmodel.ErrPaymentAlreadySettled) {
			if markErr := s.webhookRepo.MarkProcessingError(ctx, webhookLog.ID, err.Error()); markErr != nil {
				logger.Error("failed to mark webhook error", markErr)
			}
		} else {
			if markErr := s.webhookRepo.MarkProcessed(ctx, webhookLog.ID); markErr != nil {
				logger.Error("failed to mark webhook processed", markErr)
			}
		}
	}

	return ack, err
}

// settleWebhook maps a validated notification onto the shared
// settlement path. Used by ProcessWebhook and the replay job.
func (s *paymentService) settleWebhook(ctx context.Context, req model.WebhookRequest) (*model.WebhookAck, error) {
	booking, err := s.resolveBooking(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	desired := bookingmodel.PaymentStatusFailed
	if req.IsApproved() {
		desired = bookingmodel.PaymentStatusPaid
	}

	amount := booking.TotalAmount
	if parsed, perr := decimal.NewFromString(req.Amount); perr == nil && req.Amount != "" {
		amount = parsed
	}

	paidAt := time.Now()
	if req.TrxDate != "" {
		if parsed, perr := time.Parse(model.GatewayDateLayout, req.TrxDate); perr == nil {
			paidAt = parsed
		}
	}

	record := &model.PaymentRecord{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		Amount:        amount,
		Currency:      req.Currency,
		PaymentMethod: model.PaymentMethodCard,
		PaymentStatus: desired,
		TransactionID: req.TransID,
		AuthCode:      optional(req.AuthCode),
		MaskedPan:     optional(req.MaskedPan),
		CardIssuer:    optional(req.CardIssuer),
		CardBrand:     optional(req.CardBrand),
		ClientIP:      optional(req.ClientIP),
		HostRefNum:    optional(req.HostRefNum),
		ResponseCode:  optional(req.ErrCode),
		ResponseMsg:   optional(req.ErrMsg),
		PaidAt:        paidAt,
	}

	newBookingStatus, err := s.settle(ctx, booking, desired, record)
	if err != nil {
		return nil, err
	}

	logger.Info("webhook settled", map[string]interface{}{
		"booking_reference": booking.BookingReference,
		"payment_status":    desired,
		"booking_status":    newBookingStatus,
		"transaction_id":    req.TransID,
	})

	return &model.WebhookAck{
		BookingReference: booking.BookingReference,
		BookingStatus:    newBookingStatus,
		PaymentStatus:    desired,
	}, nil
}

// SettleSuccess writes the paid/confirmed transition for a redirect signal
func (s *paymentService) SettleSuccess(ctx context.Context, bookingReference string) (*model.SettlementResult, error) {
	return s.settleRedirect(ctx, bookingReference, bookingmodel.PaymentStatusPaid, "", "")
}

// SettleFailure writes the failed transition, leaving the booking pending
// so the customer can retry
func (s *paymentService) SettleFailure(ctx context.Context, bookingReference, errCode, errMsg string) (*model.SettlementResult, error) {
	return s.settleRedirect(ctx, bookingReference, bookingmodel.PaymentStatusFailed, errCode, errMsg)
}

func (s *paymentService) settleRedirect(ctx context.Context, bookingReference, desired, errCode, errMsg string) (*model.SettlementResult, error) {
	booking, err := s.resolveBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}

	record := &model.PaymentRecord{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		Amount:        booking.TotalAmount,
		Currency:      "",
		PaymentMethod: model.PaymentMethodCard,
		PaymentStatus: desired,
		TransactionID: uuid.New().String(),
		ResponseCode:  optional(errCode),
		ResponseMsg:   optional(errMsg),
		PaidAt:        time.Now(),
	}

	newBookingStatus, err := s.settle(ctx, booking, desired, record)
	if err != nil {
		return nil, err
	}

	logger.Info("redirect settled", map[string]interface{}{
		"booking_reference": booking.BookingReference,
		"payment_status":    desired,
		"booking_status":    newBookingStatus,
	})

	return &model.SettlementResult{
		BookingReference: booking.BookingReference,
		BookingStatus:    newBookingStatus,
		PaymentStatus:    desired,
	}, nil
}

// settle is the one shared state-transition path for all three entry
// points (webhook, success redirect, failure redirect).
//
// Business Logic Flow:
//
//  1. Check the transition is legal from what we last read
//  2. Take a short advisory lock keyed by booking id; the lock narrows
//     the race window, the CAS write below closes it
//  3. In one transaction: conditional status UPDATE (fails if another
//     callback settled first) + ledger INSERT
func (s *paymentService) settle(ctx context.Context, booking *bookingmodel.Booking, desired string, record *model.PaymentRecord) (string, error) {
	// Step 1: Early transition check against the status we read. The CAS
	// below is authoritative; this just avoids opening a transaction for
	// an obviously settled booking.
	if _, err := bookingmodel.TransitionPaymentStatus(booking.PaymentStatus, desired); err != nil {
		return "", err
	}

	newBookingStatus := bookingmodel.BookingStatusForPayment(desired)

	// Step 2: Advisory lock. Redis being down degrades to CAS-only.
	lockKey := settleLockPrefix + booking.ID.String()
	acquired, err := s.cache.SetNX(ctx, lockKey, record.ID.String(), settleLockTTL)
	if err != nil {
		logger.Warn("settlement lock unavailable, relying on conditional update", map[string]interface{}{
			"booking_reference": booking.BookingReference,
			"error":             err.Error(),
		})
	} else if !acquired {
		return "", model.NewPaymentError(
			model.ErrCodePaymentConflict,
			fmt.Sprintf("Settlement already in progress for booking %s", booking.BookingReference),
			model.ErrSettlementLocked,
		)
	} else {
		defer func() {
			if delErr := s.cache.Delete(ctx, lockKey); delErr != nil {
				logger.Warn("failed to release settlement lock", map[string]interface{}{
					"key":   lockKey,
					"error": delErr.Error(),
				})
			}
		}()
	}

	// Step 3: Atomic status move + ledger row
	err = s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.bookingRepo.UpdatePaymentStatusTx(ctx, tx, booking.ID, bookingmodel.PaymentStatusPending, desired, newBookingStatus); err != nil {
			return err
		}
		return s.paymentRepo.CreateWithTx(ctx, tx, record)
	})
	if err != nil {
		if errors.Is(err, bookingmodel.ErrPaymentAlreadySettled) {
			return "", bookingmodel.NewPaymentAlreadySettledError(booking.PaymentStatus)
		}
		return "", fmt.Errorf("settlement transaction failed: %w", err)
	}

	return newBookingStatus, nil
}

// ListPayments is the admin finance listing
func (s *paymentService) ListPayments(ctx context.Context, filter model.ListPaymentsFilter) ([]*model.PaymentRecord, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, model.NewPaymentError(model.ErrCodePaymentValidation, "Invalid listing filter", err)
	}
	return s.paymentRepo.List(ctx, filter)
}

// ListPaymentsForBooking returns one booking's ledger rows
func (s *paymentService) ListPaymentsForBooking(ctx context.Context, bookingReference string) ([]*model.PaymentRecord, error) {
	booking, err := s.resolveBooking(ctx, bookingReference)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByBookingID(ctx, booking.ID)
}

// ExpireStalePayments fails pending bookings older than the timeout
func (s *paymentService) ExpireStalePayments(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-time.Duration(s.timeoutMinutes) * time.Minute)

	stale, err := s.bookingRepo.ListStalePending(ctx, cutoff, expireBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale bookings: %w", err)
	}

	expired := 0
	for i := range stale {
		booking := &stale[i]
		record := &model.PaymentRecord{
			ID:            uuid.New(),
			BookingID:     booking.ID,
			Amount:        booking.TotalAmount,
			PaymentMethod: model.PaymentMethodCard,
			PaymentStatus: bookingmodel.PaymentStatusFailed,
			TransactionID: uuid.New().String(),
			ResponseCode:  optional("TIMEOUT"),
			ResponseMsg:   optional("Payment window expired"),
			PaidAt:        time.Now(),
		}
		if _, err := s.settle(ctx, booking, bookingmodel.PaymentStatusFailed, record); err != nil {
			// A webhook racing the expiry job is fine; the loser just skips.
			if errors.Is(err, bookingmodel.ErrPaymentAlreadySettled) || errors.Is(err, model.ErrSettlementLocked) {
				continue
			}
			logger.Error("failed to expire stale booking", err)
			continue
		}
		expired++
	}

	if expired > 0 {
		logger.Info("expired stale payments", map[string]interface{}{"count": expired})
	}
	return expired, nil
}

// RetryUnprocessedWebhooks replays logged notifications. Each failed
// replay counts as an attempt; entries that keep failing drop out of
// the batch after maxWebhookAttempts instead of looping forever.
func (s *paymentService) RetryUnprocessedWebhooks(ctx context.Context) (int, error) {
	logs, err := s.webhookRepo.ListUnprocessed(ctx, retryBatchSize, maxWebhookAttempts)
	if err != nil {
		return 0, fmt.Errorf("failed to list unprocessed webhooks: %w", err)
	}

	replayed := 0
	for _, webhookLog := range logs {
		req, err := decodeWebhookPayload(webhookLog.RawPayload)
		if err != nil {
			if markErr := s.webhookRepo.MarkProcessingError(ctx, webhookLog.ID, err.Error()); markErr != nil {
				logger.Error("failed to mark webhook error", markErr)
			}
			continue
		}

		_, err = s.settleWebhook(ctx, *req)
		switch {
		case err == nil:
			replayed++
		case errors.Is(err, bookingmodel.ErrPaymentAlreadySettled):
			// Settled by another path since the log was written.
		default:
			if markErr := s.webhookRepo.MarkProcessingError(ctx, webhookLog.ID, err.Error()); markErr != nil {
				logger.Error("failed to mark webhook error", markErr)
			}
			continue
		}

		if markErr := s.webhookRepo.MarkProcessed(ctx, webhookLog.ID); markErr != nil {
			logger.Error("failed to mark webhook processed", markErr)
		}
	}

	if replayed > 0 {
		logger.Info("replayed webhooks", map[string]interface{}{"count": replayed})
	}
	return replayed, nil
}

// decodeWebhookPayload rebuilds a WebhookRequest from the raw
// form-encoded body stored in the log.
func decodeWebhookPayload(raw string) (*model.WebhookRequest, error) {
	req, err := nestpay.ParseWebhookRequest(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed logged payload: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("logged payload missing required fields: %w", err)
	}
	return req, nil
}

// resolveBooking maps not-found onto the payment error taxonomy
func (s *paymentService) resolveBooking(ctx context.Context, reference string) (*bookingmodel.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingmodel.ErrBookingNotFound) {
			return nil, model.NewPaymentError(
				model.ErrCodePaymentNotFound,
				fmt.Sprintf("Booking not found: %s", reference),
				bookingmodel.ErrBookingNotFound,
			)
		}
		return nil, fmt.Errorf("failed to resolve booking: %w", err)
	}
	return booking, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

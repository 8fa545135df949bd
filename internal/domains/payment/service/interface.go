package service

import (
	"context"

	"tourbooking-backend/internal/domains/payment/model"
)

// PaymentService drives the gateway integration: building checkout
// forms, verifying returns, and settling bookings exactly once.
type PaymentService interface {
	// BuildCheckoutForm assembles the signed auto-submit form for a
	// pending booking. Settled bookings are rejected with a conflict.
	BuildCheckoutForm(ctx context.Context, bookingReference string) (*model.CheckoutForm, error)

	// VerifyGatewayReturn classifies a browser-redirect payload as
	// approved, declined, tampered or no_data. Read-only: the webhook
	// and the redirect settle handlers own the mutations.
	VerifyGatewayReturn(ctx context.Context, rawBody string) (*model.GatewayReturnResult, error)

	// ProcessWebhook performs the authoritative settlement for a
	// server-to-server notification.
	ProcessWebhook(ctx context.Context, req model.WebhookRequest, rawPayload string) (*model.WebhookAck, error)

	// SettleSuccess and SettleFailure back the redirect-based completion
	// entry points. Both enforce the same pending-only guard as the
	// webhook.
	SettleSuccess(ctx context.Context, bookingReference string) (*model.SettlementResult, error)
	SettleFailure(ctx context.Context, bookingReference, errCode, errMsg string) (*model.SettlementResult, error)

	// ListPayments is the admin finance listing.
	ListPayments(ctx context.Context, filter model.ListPaymentsFilter) ([]*model.PaymentRecord, int, error)

	// ListPaymentsForBooking returns one booking's ledger rows.
	ListPaymentsForBooking(ctx context.Context, bookingReference string) ([]*model.PaymentRecord, error)

	// ExpireStalePayments fails pending bookings older than the payment
	// timeout. Returns the number of bookings expired.
	ExpireStalePayments(ctx context.Context) (int, error)

	// RetryUnprocessedWebhooks replays logged notifications that have
	// not settled yet. Returns the number successfully replayed.
	RetryUnprocessedWebhooks(ctx context.Context) (int, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tourbooking-backend/internal/domains/payment/model"
)

// PaymentRepository persists the append-only payment ledger.
type PaymentRepository interface {
	// CreateWithTx inserts a ledger row inside the caller's transaction,
	// alongside the booking status CAS update.
	CreateWithTx(ctx context.Context, tx pgx.Tx, record *model.PaymentRecord) error

	// ListByBookingID returns all ledger rows for one booking, newest first.
	ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*model.PaymentRecord, error)

	// List returns a filtered page of ledger rows with the total count.
	List(ctx context.Context, filter model.ListPaymentsFilter) ([]*model.PaymentRecord, int, error)
}

// WebhookLogRepository stores inbound gateway notifications for replay.
type WebhookLogRepository interface {
	Create(ctx context.Context, log *model.PaymentWebhookLog) error
	MarkProcessed(ctx context.Context, id uuid.UUID) error

	// MarkProcessingError records why a notification could not settle and
	// increments its attempt counter.
	MarkProcessingError(ctx context.Context, id uuid.UUID, processErr string) error

	// ListUnprocessed returns unsettled notifications with fewer than
	// maxAttempts failed replays, oldest first. The cap keeps permanently
	// malformed payloads from being replayed forever.
	ListUnprocessed(ctx context.Context, limit, maxAttempts int) ([]*model.PaymentWebhookLog, error)
}

// TransactionManager runs a function inside a database transaction so
// services can combine repository calls atomically without importing the
// pool directly.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

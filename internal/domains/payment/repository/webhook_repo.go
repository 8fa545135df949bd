package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking-backend/internal/domains/payment/model"
)

// =====================================================
// WEBHOOK LOG REPOSITORY IMPLEMENTATION
// =====================================================
type webhookLogRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookLogRepository(pool *pgxpool.Pool) WebhookLogRepository {
	return &webhookLogRepository{pool: pool}
}

// Create stores an inbound notification before it is processed
func (r *webhookLogRepository) Create(ctx context.Context, log *model.PaymentWebhookLog) error {
	query := `
		INSERT INTO payment_webhook_logs (
			id, booking_reference, raw_payload, processed, received_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.BookingRef,
		log.RawPayload,
		log.Processed,
		log.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}

	return nil
}

// MarkProcessed records a successful settlement for a logged notification
func (r *webhookLogRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE payment_webhook_logs
		SET processed = TRUE, process_error = NULL, processed_at = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark webhook processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWebhookNotFound
	}

	return nil
}

// MarkProcessingError records why a logged notification could not settle
// and counts the failed attempt
func (r *webhookLogRepository) MarkProcessingError(ctx context.Context, id uuid.UUID, processErr string) error {
	query := `
		UPDATE payment_webhook_logs
		SET process_error = $2, attempts = attempts + 1
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, processErr)
	if err != nil {
		return fmt.Errorf("failed to mark webhook error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWebhookNotFound
	}

	return nil
}

// ListUnprocessed returns notifications awaiting replay, oldest first.
// Entries that already failed maxAttempts times are left alone.
func (r *webhookLogRepository) ListUnprocessed(ctx context.Context, limit, maxAttempts int) ([]*model.PaymentWebhookLog, error) {
	query := `
		SELECT id, booking_reference, raw_payload, processed, process_error, attempts, received_at, processed_at
		FROM payment_webhook_logs
		WHERE processed = FALSE AND attempts < $2
		ORDER BY received_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed webhooks: %w", err)
	}
	defer rows.Close()

	var logs []*model.PaymentWebhookLog
	for rows.Next() {
		log := &model.PaymentWebhookLog{}
		err := rows.Scan(
			&log.ID,
			&log.BookingRef,
			&log.RawPayload,
			&log.Processed,
			&log.ProcessError,
			&log.Attempts,
			&log.ReceivedAt,
			&log.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate webhook logs: %w", err)
	}

	return logs, nil
}

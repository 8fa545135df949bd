package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT REPOSITORY IMPLEMENTATION
// =====================================================
type paymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `
	id, booking_id, amount, currency,
	payment_method, payment_status, transaction_id,
	auth_code, masked_pan, card_issuer, card_brand,
	client_ip, host_ref_num, response_code, response_msg,
	paid_at, created_at
`

// CreateWithTx inserts a ledger row inside the caller's transaction
func (r *paymentRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, record *model.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (
			id, booking_id, amount, currency,
			payment_method, payment_status, transaction_id,
			auth_code, masked_pan, card_issuer, card_brand,
			client_ip, host_ref_num, response_code, response_msg,
			paid_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		record.ID,
		record.BookingID,
		record.Amount,
		record.Currency,
		record.PaymentMethod,
		record.PaymentStatus,
		record.TransactionID,
		record.AuthCode,
		record.MaskedPan,
		record.CardIssuer,
		record.CardBrand,
		record.ClientIP,
		record.HostRefNum,
		record.ResponseCode,
		record.ResponseMsg,
		record.PaidAt,
	).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}

	return nil
}

// ListByBookingID returns all ledger rows for one booking, newest first
func (r *paymentRepository) ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*model.PaymentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payment_records
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`, paymentColumns)

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	defer rows.Close()

	return scanPaymentRecords(rows)
}

// List returns a filtered page of ledger rows with the total count
func (r *paymentRepository) List(ctx context.Context, filter model.ListPaymentsFilter) ([]*model.PaymentRecord, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM payment_records WHERE ($1 = '' OR payment_status = $1)`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filter.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payment records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM payment_records
		WHERE ($1 = '' OR payment_status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, paymentColumns)

	rows, err := r.pool.Query(ctx, query, filter.Status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payment records: %w", err)
	}
	defer rows.Close()

	records, err := scanPaymentRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func scanPaymentRecords(rows pgx.Rows) ([]*model.PaymentRecord, error) {
	var records []*model.PaymentRecord
	for rows.Next() {
		record := &model.PaymentRecord{}
		err := rows.Scan(
			&record.ID,
			&record.BookingID,
			&record.Amount,
			&record.Currency,
			&record.PaymentMethod,
			&record.PaymentStatus,
			&record.TransactionID,
			&record.AuthCode,
			&record.MaskedPan,
			&record.CardIssuer,
			&record.CardBrand,
			&record.ClientIP,
			&record.HostRefNum,
			&record.ResponseCode,
			&record.ResponseMsg,
			&record.PaidAt,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment records: %w", err)
	}
	return records, nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT RECORD ENTITY
// =====================================================

// PaymentRecord is one row of the payment ledger. Rows are append-only:
// every settlement attempt (paid or failed) writes exactly one record in
// the same transaction that moves the booking's payment status.
type PaymentRecord struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	BookingID     uuid.UUID       `json:"booking_id" db:"booking_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	AuthCode      *string         `json:"auth_code,omitempty" db:"auth_code"`
	MaskedPan     *string         `json:"masked_pan,omitempty" db:"masked_pan"`
	CardIssuer    *string         `json:"card_issuer,omitempty" db:"card_issuer"`
	CardBrand     *string         `json:"card_brand,omitempty" db:"card_brand"`
	ClientIP      *string         `json:"client_ip,omitempty" db:"client_ip"`
	HostRefNum    *string         `json:"host_ref_num,omitempty" db:"host_ref_num"`
	ResponseCode  *string         `json:"response_code,omitempty" db:"response_code"`
	ResponseMsg   *string         `json:"response_msg,omitempty" db:"response_msg"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// =====================================================
// WEBHOOK LOG ENTITY
// =====================================================

// PaymentWebhookLog stores every inbound gateway notification verbatim so
// failed deliveries can be replayed by the retry job.
type PaymentWebhookLog struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	BookingRef   string     `json:"booking_reference" db:"booking_reference"`
	RawPayload   string     `json:"raw_payload" db:"raw_payload"`
	Processed    bool       `json:"processed" db:"processed"`
	ProcessError *string    `json:"process_error,omitempty" db:"process_error"`
	Attempts     int        `json:"attempts" db:"attempts"`
	ReceivedAt   time.Time  `json:"received_at" db:"received_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty" db:"processed_at"`
}

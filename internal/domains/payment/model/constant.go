package model

// =====================================================
// GATEWAY PROTOCOL CONSTANTS
// =====================================================
const (
	// ProcReturnCodeSuccess is the gateway's approval sentinel for the
	// browser-redirect result code field.
	ProcReturnCodeSuccess = "00"

	// ResponseApproved is the approval sentinel for the webhook response
	// field. Settlement additionally requires MDStatusAuthenticated.
	ResponseApproved = "Approved"

	// MDStatusAuthenticated means full 3-D Secure authentication.
	MDStatusAuthenticated = "1"

	// GatewayDateLayout is the gateway's proprietary transaction
	// timestamp format, e.g. "20240115 14:30:45".
	GatewayDateLayout = "20060102 15:04:05"
)

// Gateway field names as posted by the hosted payment page.
const (
	FieldHash           = "hash"
	FieldEncoding       = "encoding"
	FieldCountdown      = "countdown"
	FieldOrderID        = "oid"
	FieldResponse       = "Response"
	FieldMDStatus       = "mdStatus"
	FieldProcReturnCode = "ProcReturnCode"
	FieldAmount         = "amount"
	FieldTransID        = "TransId"
	FieldAuthCode       = "AuthCode"
	FieldMaskedPan      = "MaskedPan"
	FieldTrxDate        = "EXTRA.TRXDATE"
	FieldClientIP       = "clientIp"
	FieldCurrency       = "currency"
	FieldCardIssuer     = "EXTRA.CARDISSUER"
	FieldCardBrand      = "EXTRA.CARDBRAND"
	FieldHostRefNum     = "HostRefNum"
	FieldReturnOID      = "ReturnOid"
	FieldErrMsg         = "ErrMsg"
	FieldErrCode        = "ErrCode"
)

// =====================================================
// PAYMENT RECORD
// =====================================================
const (
	// PaymentMethodCard tags every ledger row written by the gateway flows.
	PaymentMethodCard = "credit_card"
)

// =====================================================
// RETURN CLASSIFICATION
// =====================================================

// ReturnOutcome classifies a verified browser-redirect payload.
type ReturnOutcome string

const (
	ReturnOutcomeApproved ReturnOutcome = "approved"
	ReturnOutcomeDeclined ReturnOutcome = "declined"
	ReturnOutcomeTampered ReturnOutcome = "tampered"
	ReturnOutcomeNoData   ReturnOutcome = "no_data"
)

// =====================================================
// FLOW DISCRIMINATOR
// =====================================================

// FlowKind records how a completion signal arrived. RedirectFlow answers
// with a browser redirect, ApiFlow with a JSON acknowledgement. Decided
// once at the top of the handler, never re-inferred per branch.
type FlowKind int

const (
	RedirectFlow FlowKind = iota
	ApiFlow
)

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodePaymentValidation = "PAY101"
	ErrCodePaymentNotFound   = "PAY102"
	ErrCodePaymentConflict   = "PAY103"
	ErrCodePaymentTampered   = "PAY104"
	ErrCodePaymentInternal   = "PAY199"
)

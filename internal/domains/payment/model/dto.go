package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// WEBHOOK REQUEST/RESPONSE
// =====================================================

// WebhookRequest is the gateway's server-to-server notification. The
// gateway posts form-encoded bodies; JSON tags cover replay from the
// webhook log.
type WebhookRequest struct {
	OrderID    string `form:"oid" json:"oid"`
	Response   string `form:"Response" json:"Response"`
	MDStatus   string `form:"mdStatus" json:"mdStatus"`
	Amount     string `form:"amount" json:"amount"`
	TransID    string `form:"TransId" json:"TransId"`
	AuthCode   string `form:"AuthCode" json:"AuthCode"`
	MaskedPan  string `form:"MaskedPan" json:"MaskedPan"`
	TrxDate    string `form:"EXTRA.TRXDATE" json:"EXTRA.TRXDATE"`
	ClientIP   string `form:"clientIp" json:"clientIp"`
	Currency   string `form:"currency" json:"currency"`
	CardIssuer string `form:"EXTRA.CARDISSUER" json:"EXTRA.CARDISSUER"`
	CardBrand  string `form:"EXTRA.CARDBRAND" json:"EXTRA.CARDBRAND"`
	HostRefNum string `form:"HostRefNum" json:"HostRefNum"`
	ReturnOID  string `form:"ReturnOid" json:"ReturnOid"`
	ErrCode    string `form:"ErrCode" json:"ErrCode"`
	ErrMsg     string `form:"ErrMsg" json:"ErrMsg"`
}

func (r WebhookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required),
		validation.Field(&r.Response, validation.Required),
		validation.Field(&r.MDStatus, validation.Required),
	)
}

// IsApproved applies the strict success condition: approval sentinel AND
// full 3-D Secure authentication. Either one alone is a failure.
func (r WebhookRequest) IsApproved() bool {
	return r.Response == ResponseApproved && r.MDStatus == MDStatusAuthenticated
}

// WebhookAck is the structured acknowledgement returned to the gateway.
type WebhookAck struct {
	BookingReference string `json:"booking_reference"`
	BookingStatus    string `json:"booking_status"`
	PaymentStatus    string `json:"payment_status"`
}

// =====================================================
// CHECKOUT FORM
// =====================================================

// FormField is one hidden input of the auto-submit checkout form. Order
// is preserved so the rendered form is stable across requests.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CheckoutForm is everything the checkout page needs to forward the
// customer to the hosted payment page.
type CheckoutForm struct {
	ActionURL string      `json:"action_url"`
	Fields    []FormField `json:"fields"`
}

// =====================================================
// GATEWAY RETURN RESULT
// =====================================================

// GatewayReturnResult is the verifier's classification of a browser
// redirect, including the full posted field set for diagnostics.
type GatewayReturnResult struct {
	Outcome          ReturnOutcome     `json:"outcome"`
	BookingReference string            `json:"booking_reference"`
	ProcReturnCode   string            `json:"proc_return_code"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	Fields           map[string]string `json:"fields"`
}

// =====================================================
// SETTLEMENT RESULT
// =====================================================

// SettlementResult reports the statuses a completion signal produced.
type SettlementResult struct {
	BookingReference string `json:"booking_reference"`
	BookingStatus    string `json:"booking_status"`
	PaymentStatus    string `json:"payment_status"`
}

// =====================================================
// ADMIN LISTING
// =====================================================

// ListPaymentsFilter narrows the admin payment listing.
type ListPaymentsFilter struct {
	Status string
	Page   int
	Limit  int
}

func (f ListPaymentsFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, validation.In("", "pending", "paid", "failed")),
		validation.Field(&f.Page, validation.Min(0)),
		validation.Field(&f.Limit, validation.Min(0), validation.Max(100)),
	)
}

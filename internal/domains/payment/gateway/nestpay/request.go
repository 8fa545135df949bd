package nestpay

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tourbooking-backend/internal/config"
	"tourbooking-backend/internal/domains/payment/model"
)

// =====================================================
// OUTBOUND PAYMENT REQUEST BUILDER
// =====================================================

// Client builds signed requests for, and verifies responses from, the
// hosted payment page. Credentials are injected, never inlined.
type Client struct {
	cfg config.NestPayConfig
}

func NewClient(cfg config.NestPayConfig) *Client {
	return &Client{cfg: cfg}
}

// PaymentOrder is the booking data the checkout form carries to the gateway.
type PaymentOrder struct {
	BookingReference string
	Amount           decimal.Decimal
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	TourName         string
}

// BuildCheckoutForm assembles the auto-submit form for a booking.
//
// Business Logic Flow:
//
//  1. Assemble the outbound parameter set (amount fixed to 2 decimals,
//     fresh nonce per attempt, booking reference as the gateway order id)
//  2. Sign it with the ver3 hash, excluding the not-yet-present
//     hash/encoding fields
//  3. Emit the fields in a stable order plus hash + encoding
func (c *Client) BuildCheckoutForm(order PaymentOrder) *model.CheckoutForm {
	nonce := strconv.FormatInt(time.Now().UnixNano(), 10)

	params := map[string]string{
		"clientid":      c.cfg.ClientID,
		"amount":        order.Amount.StringFixed(2),
		"currency":      c.cfg.Currency,
		"storetype":     c.cfg.StoreType,
		"hashAlgorithm": "ver3",
		"rnd":           nonce,
		"trantype":      "Auth",
		"islemtipi":     "Auth",
		"taksit":        "",
		"oid":           order.BookingReference,
		"lang":          c.cfg.Lang,
		"okUrl":         c.cfg.OkURL,
		"failUrl":       c.cfg.FailURL,
		"BillToName":    order.CustomerName,
		"BillToCompany": "",
		"email":         order.CustomerEmail,
		"tel":           order.CustomerPhone,
		"description":   fmt.Sprintf("Tour booking: %s", order.TourName),
		"callbackUrl":   c.cfg.CallbackURL,
		"refreshtime":   c.cfg.RefreshTime,
	}

	hash := ComputeHash(params, c.cfg.StoreKey, OutboundExcludedKeys)

	fields := make([]model.FormField, 0, len(params)+2)
	for _, name := range outboundFieldOrder {
		fields = append(fields, model.FormField{Name: name, Value: params[name]})
	}
	fields = append(fields,
		model.FormField{Name: "hash", Value: hash},
		model.FormField{Name: "encoding", Value: "UTF-8"},
	)

	return &model.CheckoutForm{
		ActionURL: c.cfg.GatewayURL,
		Fields:    fields,
	}
}

// outboundFieldOrder keeps the rendered form stable; signing order is
// independent (the hash engine sorts canonically).
var outboundFieldOrder = []string{
	"clientid",
	"amount",
	"currency",
	"storetype",
	"hashAlgorithm",
	"rnd",
	"trantype",
	"islemtipi",
	"taksit",
	"oid",
	"lang",
	"okUrl",
	"failUrl",
	"BillToName",
	"BillToCompany",
	"email",
	"tel",
	"description",
	"callbackUrl",
	"refreshtime",
}

package nestpay

import (
	"net/url"
	"strings"

	"tourbooking-backend/internal/domains/payment/model"
)

// =====================================================
// INBOUND RESPONSE VERIFIER
// =====================================================

// ParseReturnBody decodes the form-encoded body the gateway posts to the
// browser return URL. Values may be empty or absent; a pair with no "="
// decodes to an empty-string value.
func ParseReturnBody(raw string) (map[string]string, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		} else {
			params[k] = ""
		}
	}
	return params, nil
}

// VerifyReturn classifies a browser-redirect payload.
//
// Business Logic Flow:
//
//  1. Empty payload -> no_data
//  2. ProcReturnCode != "00" -> declined, surface the gateway's reason
//     (no hash check; a declined payload carries nothing to verify)
//  3. Otherwise recompute the signature and compare against the posted
//     hash ("hash" or "HASH") -> approved on match, tampered on mismatch
func (c *Client) VerifyReturn(params map[string]string) *model.GatewayReturnResult {
	if len(params) == 0 {
		return &model.GatewayReturnResult{
			Outcome: model.ReturnOutcomeNoData,
			Fields:  map[string]string{},
		}
	}

	result := &model.GatewayReturnResult{
		BookingReference: params[model.FieldOrderID],
		ProcReturnCode:   params[model.FieldProcReturnCode],
		Fields:           params,
	}

	if result.ProcReturnCode != model.ProcReturnCodeSuccess {
		result.Outcome = model.ReturnOutcomeDeclined
		result.ErrorMessage = params[model.FieldErrMsg]
		return result
	}

	if VerifyHash(params, c.cfg.StoreKey, postedHash(params)) {
		result.Outcome = model.ReturnOutcomeApproved
	} else {
		result.Outcome = model.ReturnOutcomeTampered
	}
	return result
}

// ParseWebhookRequest decodes a form-encoded webhook body into a typed
// request. Shared by the webhook handler and the replay job.
func ParseWebhookRequest(raw string) (*model.WebhookRequest, error) {
	params, err := ParseReturnBody(raw)
	if err != nil {
		return nil, err
	}
	return &model.WebhookRequest{
		OrderID:    params[model.FieldOrderID],
		Response:   params[model.FieldResponse],
		MDStatus:   params[model.FieldMDStatus],
		Amount:     params[model.FieldAmount],
		TransID:    params[model.FieldTransID],
		AuthCode:   params[model.FieldAuthCode],
		MaskedPan:  params[model.FieldMaskedPan],
		TrxDate:    params[model.FieldTrxDate],
		ClientIP:   params[model.FieldClientIP],
		Currency:   params[model.FieldCurrency],
		CardIssuer: params[model.FieldCardIssuer],
		CardBrand:  params[model.FieldCardBrand],
		HostRefNum: params[model.FieldHostRefNum],
		ReturnOID:  params[model.FieldReturnOID],
		ErrCode:    params[model.FieldErrCode],
		ErrMsg:     params[model.FieldErrMsg],
	}, nil
}

// postedHash finds the gateway's signature field regardless of casing.
func postedHash(params map[string]string) string {
	for k, v := range params {
		if strings.EqualFold(k, model.FieldHash) {
			return v
		}
	}
	return ""
}

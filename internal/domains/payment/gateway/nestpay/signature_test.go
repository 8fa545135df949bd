package nestpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStoreKey = "TEST_STORE_KEY_123"

func basePaymentParams() map[string]string {
	return map[string]string{
		"clientid":  "merchant01",
		"oid":       "BK-4F2A91C3",
		"amount":    "100.00",
		"currency":  "949",
		"rnd":       "1700000000000",
		"storetype": "3d_pay_hosting",
		"okUrl":     "https://example.com/api/v1/payments/response",
		"failUrl":   "https://example.com/api/v1/payments/response",
	}
}

func TestComputeHash_Deterministic(t *testing.T) {
	params := basePaymentParams()

	first := ComputeHash(params, testStoreKey, OutboundExcludedKeys)
	second := ComputeHash(params, testStoreKey, OutboundExcludedKeys)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestComputeHash_InsertionOrderIrrelevant(t *testing.T) {
	params := basePaymentParams()
	reference := ComputeHash(params, testStoreKey, OutboundExcludedKeys)

	// Rebuild the map in a different insertion order.
	reordered := make(map[string]string)
	reordered["okUrl"] = params["okUrl"]
	reordered["rnd"] = params["rnd"]
	reordered["clientid"] = params["clientid"]
	reordered["failUrl"] = params["failUrl"]
	reordered["amount"] = params["amount"]
	reordered["storetype"] = params["storetype"]
	reordered["currency"] = params["currency"]
	reordered["oid"] = params["oid"]

	assert.Equal(t, reference, ComputeHash(reordered, testStoreKey, OutboundExcludedKeys))
}

func TestComputeHash_SingleEditChangesHash(t *testing.T) {
	params := basePaymentParams()
	reference := ComputeHash(params, testStoreKey, OutboundExcludedKeys)

	for key := range params {
		mutated := basePaymentParams()
		mutated[key] = mutated[key] + "x"

		assert.NotEqual(t, reference, ComputeHash(mutated, testStoreKey, OutboundExcludedKeys),
			"editing %q should change the hash", key)
	}
}

func TestComputeHash_DifferentSecretDifferentHash(t *testing.T) {
	params := basePaymentParams()

	a := ComputeHash(params, "secret-a", OutboundExcludedKeys)
	b := ComputeHash(params, "secret-b", OutboundExcludedKeys)

	assert.NotEqual(t, a, b)
}

func TestComputeHash_EscapingApplied(t *testing.T) {
	withSpecials := map[string]string{"description": `tour|name\path`}
	stripped := map[string]string{"description": "tournamepath"}

	assert.NotEqual(t,
		ComputeHash(withSpecials, testStoreKey, nil),
		ComputeHash(stripped, testStoreKey, nil),
	)
}

func TestComputeHash_SecretEscaped(t *testing.T) {
	params := map[string]string{"oid": "BK-1"}

	// A secret with a raw pipe must not collapse into the same plaintext
	// as the equivalent without it.
	a := ComputeHash(params, `key|part`, nil)
	b := ComputeHash(params, `keypart`, nil)

	assert.NotEqual(t, a, b)
}

func TestComputeHash_EscapedValueNoFieldBleed(t *testing.T) {
	// Value "a|b" in one field must differ from "a" and "b" split over
	// two fields joining to the same raw byte sequence.
	joined := map[string]string{"x": "a|b"}
	split := map[string]string{"x": "a", "y": "b"}

	assert.NotEqual(t,
		ComputeHash(joined, testStoreKey, nil),
		ComputeHash(split, testStoreKey, nil),
	)
}

func TestSortKeys_CaseInsensitiveOrdering(t *testing.T) {
	keys := []string{"b", "A"}
	sortKeys(keys)
	assert.Equal(t, []string{"A", "b"}, keys)

	keys = []string{"amount", "Amount", "BillToName", "clientid"}
	sortKeys(keys)
	// "amount"/"Amount" sort adjacently regardless of case; the byte
	// tie-break keeps the order deterministic.
	assert.Equal(t, []string{"Amount", "amount", "BillToName", "clientid"}, keys)
}

func TestComputeHash_CaseOnlyKeysStillDeterministic(t *testing.T) {
	params := map[string]string{
		"Amount": "1.00",
		"amount": "2.00",
	}

	first := ComputeHash(params, testStoreKey, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ComputeHash(params, testStoreKey, nil))
	}
}

func TestComputeHash_ExcludedKeysCaseInsensitive(t *testing.T) {
	params := basePaymentParams()
	reference := ComputeHash(params, testStoreKey, InboundExcludedKeys)

	withNoise := basePaymentParams()
	withNoise["HASH"] = "bogus"
	withNoise["Encoding"] = "UTF-8"
	withNoise["COUNTDOWN"] = "5"

	assert.Equal(t, reference, ComputeHash(withNoise, testStoreKey, InboundExcludedKeys))
}

func TestHash_Symmetry(t *testing.T) {
	// Build an outbound set, sign it, then treat the same set plus the
	// hash/encoding fields as an inbound payload: recomputing with the
	// inbound exclusions must reproduce the original signature.
	params := basePaymentParams()
	outbound := ComputeHash(params, testStoreKey, OutboundExcludedKeys)

	inbound := basePaymentParams()
	inbound["hash"] = outbound
	inbound["encoding"] = "UTF-8"
	inbound["countdown"] = "5"

	recomputed := ComputeHash(inbound, testStoreKey, InboundExcludedKeys)
	require.Equal(t, outbound, recomputed)
	assert.True(t, VerifyHash(inbound, testStoreKey, outbound))
}

func TestVerifyHash_DetectsTampering(t *testing.T) {
	params := basePaymentParams()
	hash := ComputeHash(params, testStoreKey, OutboundExcludedKeys)

	params["amount"] = "1.00"

	assert.False(t, VerifyHash(params, testStoreKey, hash))
}

func TestVerifyHash_RejectsEmptyProvidedHash(t *testing.T) {
	params := basePaymentParams()

	assert.False(t, VerifyHash(params, testStoreKey, ""))
}

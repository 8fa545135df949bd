package nestpay

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// =====================================================
// VER3 SIGNATURE ENGINE
// =====================================================
//
// The hosted payment page signs requests and responses with the same
// canonical serialization: drop excluded keys, sort the rest with a
// locale-aware case-insensitive collation, escape each value, join with
// "|", append the escaped store key, SHA-512, base64.

// Keys never included in the signature. Outbound payloads exclude only
// the hash/encoding placeholders; inbound verification also drops the
// countdown field the gateway appends after signing.
var (
	OutboundExcludedKeys = []string{"hash", "encoding"}
	InboundExcludedKeys  = []string{"hash", "encoding", "countdown"}
)

// ComputeHash produces the ver3 signature for a parameter set.
// Exclusion matching is case-insensitive, so both "hash" and "HASH"
// vanish from the signed set.
func ComputeHash(params map[string]string, storeKey string, excludedKeys []string) string {
	excluded := make(map[string]struct{}, len(excludedKeys))
	for _, k := range excludedKeys {
		excluded[strings.ToLower(k)] = struct{}{}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if _, skip := excluded[strings.ToLower(k)]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sortKeys(keys)

	var plain strings.Builder
	for _, k := range keys {
		plain.WriteString(escapeValue(params[k]))
		plain.WriteByte('|')
	}
	plain.WriteString(escapeValue(storeKey))

	sum := sha512.Sum512([]byte(plain.String()))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyHash recomputes the inbound signature and compares it in
// constant time against what the gateway posted.
func VerifyHash(params map[string]string, storeKey, providedHash string) bool {
	expected := ComputeHash(params, storeKey, InboundExcludedKeys)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(providedHash)) == 1
}

// sortKeys orders keys the way the gateway does: case- and
// diacritic-insensitive collation, with a byte comparison breaking ties
// so "Amount" vs "amount" still sorts deterministically.
func sortKeys(keys []string) {
	// Collators are not safe for concurrent use, so build one per call.
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(keys, func(i, j int) bool {
		if r := c.CompareString(keys[i], keys[j]); r != 0 {
			return r < 0
		}
		return keys[i] < keys[j]
	})
}

// escapeValue escapes backslashes before pipes so inserted backslashes
// are never re-escaped. Applied to every value and to the store key.
func escapeValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "|", `\|`)
}

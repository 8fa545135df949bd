package utils

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetEnvVariable reads an environment variable with a fallback default
func GetEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// ParseFloatToDecimal converts an optional float into a decimal pointer
func ParseFloatToDecimal(number *float64) *decimal.Decimal {
	if number == nil {
		return nil
	}
	d := decimal.NewFromFloat(*number)
	return &d
}

// ParseStringToUUID parses a string into a UUID, returning uuid.Nil on failure
func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

// GenerateBookingReference builds a human-shareable booking reference.
// Format: BK-XXXXXXXX (first uuid group, uppercase). The reference doubles
// as the payment gateway's order id, so it must stay URL-safe.
func GenerateBookingReference() string {
	id := uuid.New().String()
	return "BK-" + strings.ToUpper(id[:8])
}

package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCurrency tags catalog prices that do not specify one.
const DefaultCurrency = "USD"

// Round2 rounds to two decimal places. decimal.Round rounds half away from
// zero, which is round-half-up for the non-negative amounts handled here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ToDecimal128 converts a decimal amount into the BSON representation used by
// catalog documents.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	parsed, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return parsed, nil
}

// FromDecimal128 converts a stored BSON amount back into a decimal.
func FromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert decimal128 %s: %w", d, err)
	}
	return parsed, nil
}

// MustDecimal128 converts or panics; reserved for literals in tests and seeds.
func MustDecimal128(value string) primitive.Decimal128 {
	parsed, err := primitive.ParseDecimal128(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

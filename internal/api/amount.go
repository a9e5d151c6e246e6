package api

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a nullable decimal used for prices, quantities, weights and adjustments.
//
// It decodes from a JSON number or a numeric string. An empty string and null
// both decode as a null amount.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a non-null amount.
func NewAmount(v float64) Amount {
	return Amount{decimal.NewNullDecimal(decimal.NewFromFloat(v))}
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		a.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("invalid amount %s: %w", trimmed, err)
	}
	a.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

// MarshalJSON implements json.Marshaler, writing the amount as a bare number.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

// Float returns the amount as *float64, nil when null.
func (a Amount) Float() *float64 {
	if !a.Valid {
		return nil
	}
	f := a.Decimal.InexactFloat64()
	return &f
}

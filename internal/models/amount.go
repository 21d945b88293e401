package models

import (
	"encoding/json"
	"math"

	"github.com/spf13/cast"
)

// Amount is a monetary value. Malformed input decodes to zero instead of failing.
type Amount float64

// ParseAmount coerces an arbitrary decoded value into an Amount.
// Numbers and numeric strings are kept, everything else becomes 0.
func ParseAmount(raw any) Amount {
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0
	}
	return Amount(v).sanitized()
}

// Float returns the value as float64, mapping NaN and infinities to 0.
func (a Amount) Float() float64 {
	return float64(a.sanitized())
}

func (a Amount) sanitized() Amount {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return a
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = 0
		return nil
	}
	*a = ParseAmount(raw)
	return nil
}

// AmountPtr returns a pointer to v, for optional monetary fields.
func AmountPtr(v float64) *Amount {
	a := Amount(v)
	return &a
}

// BoolPtr returns a pointer to v, for optional flags.
func BoolPtr(v bool) *bool {
	return &v
}

// ValueOf dereferences an optional amount, treating nil as 0.
func ValueOf(a *Amount) float64 {
	if a == nil {
		return 0
	}
	return a.Float()
}

// Package model contains domain models passed between layers.
//
// Source tables deliver every field as text. Numeric fields are coerced once,
// when a row becomes a typed record, and carried as Number afterwards.
package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric field that may be absent.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a present Number.
func Num(v float64) Number { return Number{Value: v, Valid: true} }

// ParseNumber interprets raw as a decimal number. Surrounding whitespace is
// ignored and the first ',' is read as the decimal separator. Empty text and
// values that are not finite are reported as absent.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NumberFrom parses raw into a Number.
func NumberFrom(raw string) Number {
	v, ok := ParseNumber(raw)
	return Number{Value: v, Valid: ok}
}

// Or returns the value, or fallback when absent.
func (n Number) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// MarshalJSON encodes absent numbers as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = NumberFrom(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*n = NumberFrom(s)
	return nil
}

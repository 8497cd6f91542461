// Package core provides the order dataset model shared by loaders and analytics.
//
// This file contains payment parsing and arithmetic. Amounts are held as
// exact decimals so sums do not depend on row order.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPayment = errors.New("invalid payment value")

// Money is a non-negative payment amount.
type Money struct {
	decimal.Decimal
}

// ZeroMoney is the additive identity.
var ZeroMoney = Money{Decimal: decimal.Zero}

// ParsePayment converts a payment_value cell into Money.
//
// It accepts plain decimals with a dot separator ("12.34", "100", "0").
// Blank, non-numeric and negative values return ErrInvalidPayment.
func ParsePayment(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidPayment
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidPayment
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidPayment
	}
	return Money{Decimal: d}, nil
}

// MustMoney parses s and panics on error. Intended for fixtures.
func MustMoney(s string) Money {
	m, err := ParsePayment(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Float returns the amount as float64 for charting.
func (m Money) Float() float64 {
	f, _ := m.Decimal.Float64()
	return f
}

// Equal reports whether both amounts are numerically equal.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// MarshalJSON renders the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is the platform's default cut of each sale.
const DefaultCommissionRate = "0.30"

// CurrencyPrecision is the number of decimal places money amounts carry.
const CurrencyPrecision = 2

// CommissionPolicy splits a sale price between the platform and the seller.
// The rate is fixed at construction; policies are immutable and safe to share.
type CommissionPolicy struct {
	rate decimal.Decimal
}

// NewCommissionPolicy creates a policy with the given rate in [0, 1].
func NewCommissionPolicy(rate decimal.Decimal) (CommissionPolicy, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return CommissionPolicy{}, ErrInvalidCommissionRate
	}

	return CommissionPolicy{rate: rate}, nil
}

// DefaultCommissionPolicy returns a policy with the documented default rate.
func DefaultCommissionPolicy() CommissionPolicy {
	rate, _ := decimal.NewFromString(DefaultCommissionRate)
	return CommissionPolicy{rate: rate}
}

// Rate returns the policy's commission rate.
func (p CommissionPolicy) Rate() decimal.Decimal {
	return p.rate
}

// Split divides price into the platform fee and the seller earnings.
// The fee rounds down at currency precision and the earnings absorb the
// remainder, so fee + earnings always equals price exactly.
func (p CommissionPolicy) Split(price decimal.Decimal) (fee, earnings decimal.Decimal, err error) {
	if price.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount
	}

	fee = price.Mul(p.rate).RoundDown(CurrencyPrecision)
	earnings = price.Sub(fee)

	return fee, earnings, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinimumPayout is the payout threshold assigned to a balance created
// on a seller's first sale.
const DefaultMinimumPayout = "50.00"

// SellerBalance is the working-set cache of money owed to one seller: the
// accumulated earnings of completed sales not yet drained by a payout.
// There is exactly one row per seller, created lazily on the first sale and
// mutated only through atomic arithmetic updates at the storage layer.
type SellerBalance struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SellerID      string
	Currency      string
	TotalEarnings decimal.Decimal
	MinimumPayout decimal.Decimal
	SaleCount     int64
}

// CanDisburse reports whether amount can be paid out of this balance.
func (b *SellerBalance) CanDisburse(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(b.TotalEarnings) {
		return ErrInsufficientBalance
	}

	return nil
}

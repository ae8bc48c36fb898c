package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// Sale is one immutable row per completed marketplace transaction. The only
// permitted mutation is the one-way transition to refunded.
type Sale struct {
	CreatedAt        time.Time
	RefundedAt       *time.Time
	RefundReason     *string
	TemplateSnapshot map[string]any
	BuyerSnapshot    map[string]any
	ID               string
	TemplateID       string
	SellerID         string
	BuyerID          string
	Currency         string
	Category         string
	PaymentMethod    string
	TransactionRef   string
	Status           SaleStatus
	Price            decimal.Decimal
	CommissionRate   decimal.Decimal
	PlatformFee      decimal.Decimal
	SellerEarnings   decimal.Decimal
}

// Validate checks the identifiers and money fields required at creation.
func (s *Sale) Validate() error {
	if s.TemplateID == "" {
		return ErrMissingTemplateID
	}

	if s.SellerID == "" {
		return ErrMissingSellerID
	}

	if s.BuyerID == "" {
		return ErrMissingBuyerID
	}

	if s.Price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// CanRefund reports whether the sale may still be refunded.
func (s *Sale) CanRefund() error {
	if s.Status == SaleStatusRefunded {
		return ErrSaleAlreadyRefunded
	}

	return nil
}

// Reconciles reports whether the commission split adds back up to the price.
func (s *Sale) Reconciles() bool {
	return s.PlatformFee.Add(s.SellerEarnings).Equal(s.Price)
}

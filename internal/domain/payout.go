package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusPaid       PayoutStatus = "paid"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// IsTerminal reports whether the status permits no further transitions.
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutStatusPaid || s == PayoutStatusFailed
}

// IsValid checks the status is one of the known payout states.
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusProcessing, PayoutStatusPaid, PayoutStatusFailed:
		return true
	default:
		return false
	}
}

// Payout is one disbursement attempt against a seller's pending balance.
// It is immutable once in a terminal state.
type Payout struct {
	CreatedAt      time.Time
	ProcessedAt    *time.Time
	PaymentDetails map[string]any
	ID             string
	SellerID       string
	Currency       string
	PaymentMethod  string
	Notes          string
	TransactionRef string
	Status         PayoutStatus
	Amount         decimal.Decimal
}

// Validate checks a payout request before persistence.
func (p *Payout) Validate() error {
	if p.SellerID == "" {
		return ErrMissingSellerID
	}

	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// CanTransitionTo checks whether the payout may move to newStatus.
// Terminal payouts reject every transition, which is what makes
// process-payout retries safe: the second attempt fails instead of
// re-applying side effects.
func (p *Payout) CanTransitionTo(newStatus PayoutStatus) error {
	if p.Status.IsTerminal() {
		return ErrPayoutAlreadyFinal
	}

	if !newStatus.IsTerminal() {
		return ErrInvalidPayoutStatus
	}

	return nil
}

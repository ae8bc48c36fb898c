package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidCommissionRate = errors.New("commission rate must be between 0 and 1")
	ErrMissingTemplateID     = errors.New("template id is required")
	ErrMissingSellerID       = errors.New("seller id is required")
	ErrMissingBuyerID        = errors.New("buyer id is required")
	ErrCurrencyMismatch      = errors.New("payout currency does not match the balance currency")

	// Not-found errors
	ErrSaleNotFound    = errors.New("sale not found")
	ErrBalanceNotFound = errors.New("seller balance not found")
	ErrPayoutNotFound  = errors.New("payout not found")

	// Conflict errors
	ErrSaleAlreadyRefunded = errors.New("sale is already refunded")
	ErrPayoutAlreadyFinal  = errors.New("payout is already in a terminal state")
	ErrInvalidPayoutStatus = errors.New("invalid payout status transition")
	ErrInsufficientBalance = errors.New("payout amount exceeds pending balance")

	// ErrStorageUnavailable is surfaced when the underlying store cannot be
	// reached or a storage call times out. Callers retry with backoff; the
	// ledger never retries writes internally.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/usecase"
)

// RecordSaleRequest represents a request to record a completed sale.
type RecordSaleRequest struct {
	TemplateID       string          `json:"template_id"`
	SellerID         string          `json:"seller_id"`
	BuyerID          string          `json:"buyer_id"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
	Category         string          `json:"category,omitempty"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	TransactionRef   string          `json:"transaction_ref,omitempty"`
	TemplateSnapshot map[string]any  `json:"template_snapshot,omitempty"`
	BuyerSnapshot    map[string]any  `json:"buyer_snapshot,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSaleRequest) ToUseCaseInput() usecase.RecordSaleInput {
	return usecase.RecordSaleInput{
		TemplateID:       r.TemplateID,
		SellerID:         r.SellerID,
		BuyerID:          r.BuyerID,
		Price:            r.Price,
		Currency:         r.Currency,
		Category:         r.Category,
		PaymentMethod:    r.PaymentMethod,
		TransactionRef:   r.TransactionRef,
		TemplateSnapshot: r.TemplateSnapshot,
		BuyerSnapshot:    r.BuyerSnapshot,
	}
}

// RefundSaleRequest represents a request to refund a sale.
type RefundSaleRequest struct {
	Reason string `json:"reason"`
}

// CreatePayoutRequest represents a request to disburse part of a seller's
// pending balance.
type CreatePayoutRequest struct {
	SellerID       string          `json:"seller_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	PaymentDetails map[string]any  `json:"payment_details,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePayoutRequest) ToUseCaseInput() usecase.CreatePayoutInput {
	return usecase.CreatePayoutInput{
		SellerID:       r.SellerID,
		Amount:         r.Amount,
		Currency:       r.Currency,
		PaymentMethod:  r.PaymentMethod,
		PaymentDetails: r.PaymentDetails,
		Notes:          r.Notes,
	}
}

// ProcessPayoutRequest represents a request to finalize a payout.
type ProcessPayoutRequest struct {
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

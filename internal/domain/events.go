package domain

import "time"

// Event types
const (
	EventTypeSaleRecorded  = "sale.recorded"
	EventTypeSaleRefunded  = "sale.refunded"
	EventTypePayoutCreated = "payout.created"
	EventTypePayoutPaid    = "payout.paid"
	EventTypePayoutFailed  = "payout.failed"
)

// Aggregate types
const (
	AggregateTypeSale   = "sale"
	AggregateTypePayout = "payout"
)

// OutboxEvent represents an event to be published to the notification
// dispatcher. Events are written in the same transaction as the state change
// they describe and drained by the event publisher worker.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// SaleRecordedEvent payload
type SaleRecordedEvent struct {
	SaleID         string `json:"sale_id"`
	TemplateID     string `json:"template_id"`
	SellerID       string `json:"seller_id"`
	BuyerID        string `json:"buyer_id"`
	Price          string `json:"price"`
	SellerEarnings string `json:"seller_earnings"`
	Currency       string `json:"currency"`
}

// SaleRefundedEvent payload
type SaleRefundedEvent struct {
	SaleID         string `json:"sale_id"`
	SellerID       string `json:"seller_id"`
	SellerEarnings string `json:"seller_earnings"`
	Reason         string `json:"reason"`
}

// PayoutCreatedEvent payload
type PayoutCreatedEvent struct {
	PayoutID string `json:"payout_id"`
	SellerID string `json:"seller_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// PayoutProcessedEvent payload, used for both paid and failed transitions
type PayoutProcessedEvent struct {
	PayoutID       string `json:"payout_id"`
	SellerID       string `json:"seller_id"`
	Amount         string `json:"amount"`
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref"`
}

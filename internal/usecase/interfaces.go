package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
)

// SaleRepository defines data access for sales.
type SaleRepository interface {
	Create(ctx context.Context, tx Transaction, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Sale, error)
	MarkRefunded(ctx context.Context, tx Transaction, id, reason string, refundedAt time.Time) error
	ListBySeller(ctx context.Context, sellerID string, status *domain.SaleStatus, limit, offset int) ([]*domain.Sale, error)
}

// BalanceRepository defines data access for seller balances. Increment and
// Decrement are single atomic arithmetic updates at the storage layer, never
// read-then-write.
type BalanceRepository interface {
	// Increment adds amount to the seller's pending balance, creating the
	// balance row on the seller's first sale.
	Increment(ctx context.Context, params IncrementParams) error
	// IncrementTx is Increment inside an existing transaction.
	IncrementTx(ctx context.Context, tx Transaction, params IncrementParams) error
	// Decrement subtracts amount from the pending balance, clamped at zero.
	Decrement(ctx context.Context, tx Transaction, sellerID string, amount decimal.Decimal, updatedAt time.Time) error
	GetBySeller(ctx context.Context, sellerID string) (*domain.SellerBalance, error)
	GetBySellerForUpdate(ctx context.Context, tx Transaction, sellerID string) (*domain.SellerBalance, error)
	List(ctx context.Context, limit, offset int) ([]*domain.SellerBalance, error)
}

// IncrementParams carries one balance increment.
type IncrementParams struct {
	UpdatedAt     time.Time
	SellerID      string
	Currency      string
	Amount        decimal.Decimal
	MinimumPayout decimal.Decimal
}

// PayoutRepository defines data access for payouts.
type PayoutRepository interface {
	Create(ctx context.Context, tx Transaction, payout *domain.Payout) error
	GetByID(ctx context.Context, id string) (*domain.Payout, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Payout, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.PayoutStatus, transactionRef, notes string, processedAt time.Time) error
	List(ctx context.Context, filter PayoutFilter) ([]*domain.Payout, error)
}

// PayoutFilter narrows payout listings.
type PayoutFilter struct {
	SellerID string
	Status   *domain.PayoutStatus
	Limit    int
	Offset   int
}

// AnalyticsRepository defines read-only aggregation over sale history.
type AnalyticsRepository interface {
	SellerSummary(ctx context.Context, sellerID string, period domain.Period) (*domain.SellerSummary, error)
	MarketplaceSummary(ctx context.Context, period domain.Period) (*domain.MarketplaceSummary, error)
}

// LedgerRepository defines ledger-wide totals used for reconciliation.
type LedgerRepository interface {
	// SellerLedgerTotals returns the sum of seller earnings over completed
	// sales and the sum of non-failed payout amounts for one seller.
	SellerLedgerTotals(ctx context.Context, sellerID string) (earned, paidOut decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

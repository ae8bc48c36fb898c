package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/infrastructure/metrics"
)

// SaleUseCase records marketplace sales and processes refunds.
type SaleUseCase struct {
	txManager     TransactionManager
	saleRepo      SaleRepository
	balanceRepo   BalanceRepository
	outboxRepo    OutboxRepository
	auditRepo     AuditRepository
	cache         Cache
	idGen         IDGenerator
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	policy        domain.CommissionPolicy
	minimumPayout decimal.Decimal
}

// NewSaleUseCase creates a new SaleUseCase. The commission policy is fixed at
// construction; there is no process-wide mutable rate.
func NewSaleUseCase(
	txManager TransactionManager,
	saleRepo SaleRepository,
	balanceRepo BalanceRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	policy domain.CommissionPolicy,
	minimumPayout decimal.Decimal,
) *SaleUseCase {
	return &SaleUseCase{
		txManager:     txManager,
		saleRepo:      saleRepo,
		balanceRepo:   balanceRepo,
		outboxRepo:    outboxRepo,
		auditRepo:     auditRepo,
		cache:         cache,
		idGen:         idGen,
		metrics:       m,
		logger:        logger,
		policy:        policy,
		minimumPayout: minimumPayout,
	}
}

// RecordSaleInput carries one completed transaction reported by the payment
// collaborator.
type RecordSaleInput struct {
	TemplateSnapshot map[string]any
	BuyerSnapshot    map[string]any
	TemplateID       string
	SellerID         string
	BuyerID          string
	Currency         string
	Category         string
	PaymentMethod    string
	TransactionRef   string
	Price            decimal.Decimal
}

// RecordSale persists an immutable sale record and credits the seller's
// pending balance. The balance increment runs after the sale commits; if it
// fails the sale is NOT rolled back and the divergence is logged and counted
// for the reconciliation report.
func (uc *SaleUseCase) RecordSale(ctx context.Context, input RecordSaleInput) (*domain.Sale, error) {
	if err := domain.ValidateAmount(input.Price); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateSnapshot(input.TemplateSnapshot); err != nil {
		return nil, err
	}

	if err := domain.ValidateSnapshot(input.BuyerSnapshot); err != nil {
		return nil, err
	}

	fee, earnings, err := uc.policy.Split(input.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := &domain.Sale{
		ID:               uc.idGen.Generate(),
		TemplateID:       input.TemplateID,
		SellerID:         input.SellerID,
		BuyerID:          input.BuyerID,
		Price:            input.Price,
		Currency:         input.Currency,
		Category:         input.Category,
		CommissionRate:   uc.policy.Rate(),
		PlatformFee:      fee,
		SellerEarnings:   earnings,
		PaymentMethod:    input.PaymentMethod,
		TransactionRef:   input.TransactionRef,
		TemplateSnapshot: input.TemplateSnapshot,
		BuyerSnapshot:    input.BuyerSnapshot,
		Status:           domain.SaleStatusCompleted,
		CreatedAt:        now,
	}

	if err := sale.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.saleRepo.Create(txCtx, tx, sale); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   sale.ID,
		AggregateType: domain.AggregateTypeSale,
		EventType:     domain.EventTypeSaleRecorded,
		Payload: map[string]any{
			"sale_id":         sale.ID,
			"template_id":     sale.TemplateID,
			"seller_id":       sale.SellerID,
			"buyer_id":        sale.BuyerID,
			"price":           sale.Price.String(),
			"seller_earnings": sale.SellerEarnings.String(),
			"currency":        sale.Currency,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditEntry(ctx, domain.AuditActionSaleRecord, sale.ID, nil, sale)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	// The sale is committed. Credit the seller's balance with a single
	// atomic add; a failure here must not undo the sale.
	if err := uc.balanceRepo.Increment(ctx, IncrementParams{
		SellerID:      sale.SellerID,
		Currency:      sale.Currency,
		Amount:        sale.SellerEarnings,
		MinimumPayout: uc.minimumPayout,
		UpdatedAt:     now,
	}); err != nil {
		uc.logger.Error().
			Err(err).
			Str("sale_id", sale.ID).
			Str("seller_id", sale.SellerID).
			Str("earnings", sale.SellerEarnings.String()).
			Msg("sale committed but balance increment failed; run reconciliation")

		if uc.metrics != nil {
			uc.metrics.IncrementFailures.Inc()
		}
	} else if uc.metrics != nil {
		uc.metrics.BalanceIncrements.Inc()
	}

	uc.invalidateBalance(ctx, sale.SellerID)

	if uc.metrics != nil {
		uc.metrics.SalesRecorded.Inc()
		uc.metrics.SaleAmount.Observe(sale.Price.InexactFloat64())
		uc.metrics.CommissionAmount.Observe(sale.PlatformFee.InexactFloat64())
	}

	return sale, nil
}

// RefundSale marks a sale refunded and reverses its effect on the seller's
// pending balance. A second refund attempt is rejected, never absorbed.
// Payouts that already disbursed the refunded earnings are untouched; that
// reconciliation is an operator concern.
func (uc *SaleUseCase) RefundSale(ctx context.Context, saleID, reason, actor string) (*domain.Sale, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	sale, err := uc.saleRepo.GetByIDForUpdate(txCtx, tx, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.CanRefund(); err != nil {
		return nil, err
	}

	before := *sale

	now := time.Now().UTC()
	if err := uc.saleRepo.MarkRefunded(txCtx, tx, sale.ID, reason, now); err != nil {
		return nil, err
	}

	sale.Status = domain.SaleStatusRefunded
	sale.RefundedAt = &now
	sale.RefundReason = &reason

	// Clamped at zero by the storage layer: a refund larger than the
	// currently tracked balance truncates rather than going negative. A
	// missing balance row is the same clamp case, so the refund still lands
	// and the divergence is left for the reconciliation report.
	if err := uc.balanceRepo.Decrement(txCtx, tx, sale.SellerID, sale.SellerEarnings, now); err != nil {
		if !errors.Is(err, domain.ErrBalanceNotFound) {
			return nil, err
		}

		uc.logger.Warn().
			Str("sale_id", sale.ID).
			Str("seller_id", sale.SellerID).
			Msg("refund found no balance row to decrement")
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   sale.ID,
		AggregateType: domain.AggregateTypeSale,
		EventType:     domain.EventTypeSaleRefunded,
		Payload: map[string]any{
			"sale_id":         sale.ID,
			"seller_id":       sale.SellerID,
			"seller_earnings": sale.SellerEarnings.String(),
			"reason":          reason,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		entry := uc.auditEntry(ctx, domain.AuditActionSaleRefund, sale.ID, &before, sale)
		if actor != "" {
			entry.ActorID = actor
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, sale.SellerID)

	if uc.metrics != nil {
		uc.metrics.SalesRefunded.Inc()
		uc.metrics.BalanceDecrements.Inc()
	}

	return sale, nil
}

// GetSale retrieves a sale by ID.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return uc.saleRepo.GetByID(ctx, id)
}

// ListSellerSalesInput represents input for listing a seller's sales.
type ListSellerSalesInput struct {
	SellerID string
	Status   *domain.SaleStatus
	Limit    int
	Offset   int
}

// ListSellerSales lists sales for one seller, newest first.
func (uc *SaleUseCase) ListSellerSales(ctx context.Context, input ListSellerSalesInput) ([]*domain.Sale, error) {
	if input.SellerID == "" {
		return nil, domain.ErrMissingSellerID
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.saleRepo.ListBySeller(ctx, input.SellerID, input.Status, limit, offset)
}

func (uc *SaleUseCase) auditEntry(ctx context.Context, action domain.AuditAction, resourceID string, before, after any) *domain.AuditLog {
	actorID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		actorID = user.ID
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: "sale",
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}
}

func (uc *SaleUseCase) invalidateBalance(ctx context.Context, sellerID string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, balanceCacheKey(sellerID)); err != nil {
		uc.logger.Warn().Err(err).Str("seller_id", sellerID).Msg("failed to invalidate balance cache")
	}
}
